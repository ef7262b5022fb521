package ec2devbot

import (
	"context"
	"time"

	"github.com/alexflint/go-arg"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/itpp-labs/ec2devbot/lib"
)

func init() {
	lib.Commands["ec2-wait-state"] = ec2WaitState
	lib.Args["ec2-wait-state"] = ec2WaitStateArgs{}
}

type ec2WaitStateArgs struct {
	State      string `arg:"positional,required" help:"pending | running | stopping | stopped | shutting-down | terminated"`
	InstanceID string `arg:"positional,required" help:"instance-id"`
	Region     string `arg:"-r,--region" help:"defaults to the session region"`
	Attempts   uint   `arg:"-a,--attempts" default:"60"`
	Timeout    int    `arg:"-t,--timeout" default:"900" help:"seconds"`
}

func (ec2WaitStateArgs) Description() string {
	return "\nwait for state\n"
}

func ec2WaitState() {
	var args ec2WaitStateArgs
	arg.MustParse(&args)
	var states []string
	for _, state := range ec2types.InstanceStateNamePending.Values() {
		states = append(states, string(state))
	}
	if !lib.Contains(states, args.State) {
		lib.Logger.Fatal("error: unknown state:", args.State, states)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(args.Timeout)*time.Second)
	defer cancel()
	client, err := lib.EC2ClientRegion(args.Region)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	err = lib.EC2WaitState(ctx, client, args.InstanceID, ec2types.InstanceStateName(args.State), args.Attempts)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
