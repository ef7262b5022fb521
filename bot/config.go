package bot

import (
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/itpp-labs/ec2devbot/lib"
)

// Config is read from the process environment once per cold start.
type Config struct {
	LogLevel      string `arg:"--log-level,env:LOG_LEVEL"`
	TelegramToken string `arg:"--telegram-token,env:TELEGRAM_TOKEN"`
	TelegramURL   string `arg:"--telegram-url,env:TELEGRAM_API_URL" default:"https://api.telegram.org"`
	EC2Region     string `arg:"--ec2-region,env:EC2_REGION"`
}

func (Config) Description() string {
	return "\ntelegram bot to start and stop ec2 instances\n"
}

func LoadConfig() (*Config, error) {
	var cfg Config
	p, err := arg.NewParser(arg.Config{Program: "ec2devbot"}, &cfg)
	if err != nil {
		return nil, err
	}
	err = p.Parse(nil)
	if err != nil {
		return nil, err
	}
	if cfg.TelegramToken == "" {
		lib.Logger.Println("warning: TELEGRAM_TOKEN is not set, replies will fail")
	}
	return &cfg, nil
}

// Verbose reports whether raw provider responses are echoed to the chat.
func (c *Config) Verbose() bool {
	return strings.ToUpper(strings.TrimSpace(c.LogLevel)) == "DEBUG"
}
