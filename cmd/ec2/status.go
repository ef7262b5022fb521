package ec2devbot

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/dustin/go-humanize"
	"github.com/itpp-labs/ec2devbot/bot"
	"github.com/itpp-labs/ec2devbot/lib"
)

func init() {
	lib.Commands["ec2-status"] = ec2Status
	lib.Args["ec2-status"] = ec2StatusArgs{}
}

type ec2StatusArgs struct {
	InstanceID string `arg:"positional,required" help:"instance-id"`
	Code       string `arg:"-c,--code" help:"instance code shown in the report"`
	Region     string `arg:"-r,--region" help:"defaults to the session region"`
}

func (ec2StatusArgs) Description() string {
	return "\nprint the status report the bot would send for an instance\n"
}

func ec2Status() {
	var args ec2StatusArgs
	arg.MustParse(&args)
	ctx := context.Background()
	compute, err := bot.NewEC2Compute(args.Region)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	instance, err := compute.Describe(ctx, args.InstanceID)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(bot.FormatStatus(args.Code, instance, true))
	if instance.LaunchTime != nil {
		fmt.Println()
		fmt.Println("launched", humanize.Time(*instance.LaunchTime))
	}
}
