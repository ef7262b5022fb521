package bot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/itpp-labs/ec2devbot/lib"
)

type Instance struct {
	ID         string
	StateCode  int32
	StateName  string
	PublicDNS  string
	LaunchTime *time.Time
}

// Compute is the slice of the provider api the bot drives. Start and Stop
// return the raw provider response as json.
type Compute interface {
	Describe(ctx context.Context, instanceID string) (*Instance, error)
	Start(ctx context.Context, instanceID string) (string, error)
	Stop(ctx context.Context, instanceID string) (string, error)
	WaitRunning(ctx context.Context, instanceID string) error
	WaitStopped(ctx context.Context, instanceID string) error
}

type EC2Compute struct {
	client *ec2.Client
}

func NewEC2Compute(region string) (*EC2Compute, error) {
	client, err := lib.EC2ClientRegion(region)
	if err != nil {
		return nil, err
	}
	return &EC2Compute{client: client}, nil
}

func instanceFromEC2(instance *ec2types.Instance) *Instance {
	result := &Instance{}
	if instance.InstanceId != nil {
		result.ID = *instance.InstanceId
	}
	if instance.State != nil {
		if instance.State.Code != nil {
			result.StateCode = *instance.State.Code
		}
		result.StateName = string(instance.State.Name)
	}
	if instance.PublicDnsName != nil {
		result.PublicDNS = *instance.PublicDnsName
	}
	result.LaunchTime = instance.LaunchTime
	return result
}

func (c *EC2Compute) Describe(ctx context.Context, instanceID string) (*Instance, error) {
	instance, err := lib.EC2DescribeInstance(ctx, c.client, instanceID)
	if err != nil {
		return nil, err
	}
	return instanceFromEC2(instance), nil
}

func (c *EC2Compute) Start(ctx context.Context, instanceID string) (string, error) {
	changes, err := lib.EC2StartInstance(ctx, c.client, instanceID)
	if err != nil {
		return "", err
	}
	return stateChangesJSON(changes)
}

func (c *EC2Compute) Stop(ctx context.Context, instanceID string) (string, error) {
	changes, err := lib.EC2StopInstance(ctx, c.client, instanceID)
	if err != nil {
		return "", err
	}
	return stateChangesJSON(changes)
}

func (c *EC2Compute) WaitRunning(ctx context.Context, instanceID string) error {
	return lib.EC2WaitRunning(ctx, c.client, instanceID)
}

func (c *EC2Compute) WaitStopped(ctx context.Context, instanceID string) error {
	return lib.EC2WaitStopped(ctx, c.client, instanceID)
}

func stateChangesJSON(changes []ec2types.InstanceStateChange) (string, error) {
	data, err := json.Marshal(changes)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
