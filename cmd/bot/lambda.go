package ec2devbot

import (
	"github.com/alexflint/go-arg"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/itpp-labs/ec2devbot/bot"
	"github.com/itpp-labs/ec2devbot/lib"
)

func init() {
	lib.Commands["bot-lambda"] = botLambda
	lib.Args["bot-lambda"] = botLambdaArgs{}
}

type botLambdaArgs struct {
}

func (botLambdaArgs) Description() string {
	return "\nserve telegram webhooks and scheduled events as a lambda\n"
}

// newHandler builds the process wide clients, once per cold start.
func newHandler() *bot.Handler {
	cfg, err := bot.LoadConfig()
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	lib.Logger.SetLevel(cfg.LogLevel)
	compute, err := bot.NewEC2Compute(cfg.EC2Region)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	chat := lib.NewTelegramClient(cfg.TelegramToken).WithBaseURL(cfg.TelegramURL)
	return bot.New(cfg, chat, compute, bot.EnvBindings())
}

func botLambda() {
	var args botLambdaArgs
	arg.MustParse(&args)
	handler := newHandler()
	lambda.Start(handler.Handle)
}
