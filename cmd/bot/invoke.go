package ec2devbot

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/itpp-labs/ec2devbot/lib"
	"github.com/joho/godotenv"
)

func init() {
	lib.Commands["bot-invoke"] = botInvoke
	lib.Args["bot-invoke"] = botInvokeArgs{}
}

type botInvokeArgs struct {
	Event   string   `arg:"positional" help:"event json file, defaults to stdin"`
	EnvFile []string `arg:"-e,--env-file,separate" help:"dotenv files to load before reading config"`
}

func (botInvokeArgs) Description() string {
	return "\nrun the handler locally against one event\n"
}

func botInvoke() {
	var args botInvokeArgs
	arg.MustParse(&args)
	if len(args.EnvFile) > 0 {
		err := godotenv.Load(args.EnvFile...)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
	}
	var data []byte
	var err error
	if args.Event == "" || args.Event == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args.Event)
	}
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	handler := newHandler()
	resp, err := handler.Handle(context.Background(), json.RawMessage(data))
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	_, _ = os.Stdout.Write(append(out, '\n'))
}
