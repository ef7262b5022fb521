package ec2devbot

import (
	"fmt"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/itpp-labs/ec2devbot/bot"
	"github.com/itpp-labs/ec2devbot/lib"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

func init() {
	lib.Commands["bot-bindings"] = botBindings
	lib.Args["bot-bindings"] = botBindingsArgs{}
}

type botBindingsArgs struct {
	UserID  int64    `arg:"positional,required" help:"telegram user id"`
	Codes   []string `arg:"positional" help:"instance codes, the default instance is always checked"`
	EnvFile []string `arg:"-e,--env-file,separate" help:"dotenv files to load first"`
	Secrets bool     `arg:"-s,--secrets" default:"false" help:"print secrets instead of masking them"`
}

func (botBindingsArgs) Description() string {
	return "\nprint the instance bindings a user resolves to\n"
}

type bindingOutput struct {
	InstanceKey string `yaml:"instance_key"`
	SecretKey   string `yaml:"secret_key"`
	InstanceID  string `yaml:"instance_id,omitempty"`
	Secret      string `yaml:"secret,omitempty"`
	Access      bool   `yaml:"access"`
}

func botBindings() {
	var args botBindingsArgs
	arg.MustParse(&args)
	if len(args.EnvFile) > 0 {
		err := godotenv.Load(args.EnvFile...)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
	}
	bindings := bot.EnvBindings()
	out := map[string]bindingOutput{}
	codes := append([]string{""}, args.Codes...)
	for _, code := range codes {
		code = strings.ToUpper(code)
		name := code
		if name == "" {
			name = "default"
		}
		entry := bindingOutput{
			InstanceKey: bot.InstanceKey(args.UserID, code),
			SecretKey:   bot.SecretKey(args.UserID, code),
		}
		binding, ok := bindings.Resolve(args.UserID, code)
		if ok {
			entry.Access = true
			entry.InstanceID = binding.InstanceID
			entry.Secret = "***"
			if args.Secrets {
				entry.Secret = binding.Secret
			}
		}
		out[name] = entry
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Print(string(data))
}
