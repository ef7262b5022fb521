package ec2devbot

import (
	"fmt"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/itpp-labs/ec2devbot/bot"
	"github.com/itpp-labs/ec2devbot/lib"
)

func init() {
	lib.Commands["bot-parse"] = botParse
	lib.Args["bot-parse"] = botParseArgs{}
}

type botParseArgs struct {
	Text []string `arg:"positional,required" help:"message text"`
}

func (botParseArgs) Description() string {
	return "\nshow the command and instance code a message text maps to\n"
}

func botParse() {
	var args botParseArgs
	arg.MustParse(&args)
	cmd := bot.ParseCommand(strings.Join(args.Text, " "))
	code := cmd.Code
	if code == "" {
		code = "-"
	}
	fmt.Println(cmd.Kind, code)
}
