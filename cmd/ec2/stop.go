package ec2devbot

import (
	"context"
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/itpp-labs/ec2devbot/lib"
)

func init() {
	lib.Commands["ec2-stop"] = ec2Stop
	lib.Args["ec2-stop"] = ec2StopArgs{}
}

type ec2StopArgs struct {
	InstanceID string `arg:"positional,required" help:"instance-id"`
	Region     string `arg:"-r,--region" help:"defaults to the session region"`
	Preview    bool   `arg:"-p,--preview" default:"false"`
	Wait       bool   `arg:"-w,--wait" default:"false"`
}

func (ec2StopArgs) Description() string {
	return "\nstop an instance\n"
}

func ec2Stop() {
	var args ec2StopArgs
	arg.MustParse(&args)
	ctx := context.Background()
	client, err := lib.EC2ClientRegion(args.Region)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	instance, err := lib.EC2DescribeInstance(ctx, client, args.InstanceID)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	if instance.State == nil || instance.State.Name != ec2types.InstanceStateNameRunning {
		lib.Logger.Fatal("error: instance is not running:", args.InstanceID)
	}
	lib.Logger.Println(lib.PreviewString(args.Preview)+"going to stop:", lib.EC2Name(instance.Tags), args.InstanceID)
	if args.Preview {
		os.Exit(0)
	}
	changes, err := lib.EC2StopInstance(ctx, client, args.InstanceID)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	for _, change := range changes {
		fmt.Println(*change.InstanceId, change.PreviousState.Name, "->", change.CurrentState.Name)
	}
	if args.Wait {
		err = lib.EC2WaitStopped(ctx, client, args.InstanceID)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
	}
}
