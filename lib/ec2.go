package lib

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// low byte of an instance state code, see ec2types.InstanceState
const (
	EC2StateCodePending      = 0
	EC2StateCodeRunning      = 16
	EC2StateCodeShuttingDown = 32
	EC2StateCodeTerminated   = 48
	EC2StateCodeStopping     = 64
	EC2StateCodeStopped      = 80
)

// used when the context carries no deadline, the ec2 waiters require a bound
const ec2WaitDefault = 24 * time.Hour

var ec2Client *ec2.Client
var ec2ClientLock sync.Mutex

func EC2Client() *ec2.Client {
	ec2ClientLock.Lock()
	defer ec2ClientLock.Unlock()
	if ec2Client == nil {
		ec2Client = ec2.NewFromConfig(*Session())
	}
	return ec2Client
}

func EC2ClientRegion(region string) (*ec2.Client, error) {
	if region == "" {
		return EC2Client(), nil
	}
	cfg, err := SessionRegion(region)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return ec2.NewFromConfig(*cfg), nil
}

func EC2Name(tags []ec2types.Tag) string {
	for _, tag := range tags {
		if tag.Key != nil && *tag.Key == "Name" && tag.Value != nil {
			return *tag.Value
		}
	}
	return "-"
}

// EC2StateCode masks the packed state code down to its canonical low byte.
func EC2StateCode(state *ec2types.InstanceState) int32 {
	if state == nil || state.Code == nil {
		return -1
	}
	return *state.Code & 0xFF
}

func EC2DescribeInstance(ctx context.Context, client *ec2.Client, instanceID string) (*ec2types.Instance, error) {
	Logger.Debug("describe instance", instanceID)
	out, err := client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	for _, reservation := range out.Reservations {
		for _, instance := range reservation.Instances {
			if instance.InstanceId != nil && *instance.InstanceId == instanceID {
				return &instance, nil
			}
		}
	}
	err = fmt.Errorf("instance not found: %s", instanceID)
	Logger.Println("error:", err)
	return nil, err
}

func EC2StartInstance(ctx context.Context, client *ec2.Client, instanceID string) ([]ec2types.InstanceStateChange, error) {
	Logger.Println("start instance", instanceID)
	out, err := client.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return out.StartingInstances, nil
}

func EC2StopInstance(ctx context.Context, client *ec2.Client, instanceID string) ([]ec2types.InstanceStateChange, error) {
	Logger.Println("stop instance", instanceID)
	out, err := client.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return out.StoppingInstances, nil
}

func ec2WaitBound(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return ec2WaitDefault
	}
	return time.Until(deadline)
}

// EC2WaitRunning blocks on the sdk waiter until the instance is running or ctx expires.
func EC2WaitRunning(ctx context.Context, client *ec2.Client, instanceID string) error {
	Logger.Println("wait for state running", instanceID)
	waiter := ec2.NewInstanceRunningWaiter(client)
	err := waiter.Wait(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	}, ec2WaitBound(ctx))
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	return nil
}

// EC2WaitStopped blocks on the sdk waiter until the instance is stopped or ctx expires.
func EC2WaitStopped(ctx context.Context, client *ec2.Client, instanceID string) error {
	Logger.Println("wait for state stopped", instanceID)
	waiter := ec2.NewInstanceStoppedWaiter(client)
	err := waiter.Wait(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	}, ec2WaitBound(ctx))
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	return nil
}

// EC2WaitState polls until the instance reports state, used by the cli where
// any state name is accepted.
func EC2WaitState(ctx context.Context, client *ec2.Client, instanceID string, state ec2types.InstanceStateName, attempts uint) error {
	Logger.Println("wait for state", state, instanceID)
	return Retry(ctx, attempts, func() error {
		instance, err := EC2DescribeInstance(ctx, client, instanceID)
		if err != nil {
			return err
		}
		if instance.State == nil || instance.State.Name != state {
			var current ec2types.InstanceStateName
			if instance.State != nil {
				current = instance.State.Name
			}
			Logger.Printf("waiting for state %s, currently %s\n", state, current)
			return fmt.Errorf("instance %s is %s not %s", instanceID, current, state)
		}
		return nil
	})
}
