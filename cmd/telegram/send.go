package ec2devbot

import (
	"context"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/itpp-labs/ec2devbot/lib"
)

func init() {
	lib.Commands["telegram-send"] = telegramSend
	lib.Args["telegram-send"] = telegramSendArgs{}
}

type telegramSendArgs struct {
	ChatID   int64    `arg:"positional,required"`
	Text     []string `arg:"positional,required"`
	Token    string   `arg:"--token,env:TELEGRAM_TOKEN,required"`
	URL      string   `arg:"--url,env:TELEGRAM_API_URL" default:"https://api.telegram.org"`
	Keyboard []string `arg:"-k,--keyboard,separate" help:"reply keyboard button, repeat for a row"`
	Remove   bool     `arg:"--remove-keyboard" default:"false"`
}

func (telegramSendArgs) Description() string {
	return "\nsend a message as the bot\n"
}

func telegramSend() {
	var args telegramSendArgs
	arg.MustParse(&args)
	var markup *lib.TelegramReplyMarkup
	if len(args.Keyboard) > 0 {
		markup = lib.TelegramKeyboard(args.Keyboard)
	} else if args.Remove {
		markup = lib.TelegramKeyboardRemove()
	}
	client := lib.NewTelegramClient(args.Token).WithBaseURL(args.URL)
	err := client.SendMessage(context.Background(), args.ChatID, strings.Join(args.Text, " "), markup)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
