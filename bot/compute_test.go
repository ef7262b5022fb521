package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

func TestInstanceFromEC2(t *testing.T) {
	launched := time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)
	instance := instanceFromEC2(&ec2types.Instance{
		InstanceId:    aws.String("i-0123"),
		State:         &ec2types.InstanceState{Code: aws.Int32(272), Name: ec2types.InstanceStateNameRunning},
		PublicDnsName: aws.String("ec2-1-2-3-4.compute.amazonaws.com"),
		LaunchTime:    &launched,
	})
	if instance.ID != "i-0123" || instance.StateCode != 272 || instance.StateName != "running" {
		t.Errorf("got %+v", instance)
	}
	if instance.PublicDNS != "ec2-1-2-3-4.compute.amazonaws.com" || !instance.LaunchTime.Equal(launched) {
		t.Errorf("got %+v", instance)
	}
	empty := instanceFromEC2(&ec2types.Instance{})
	if empty.ID != "" || empty.StateName != "" || empty.PublicDNS != "" || empty.LaunchTime != nil {
		t.Errorf("got %+v", empty)
	}
}

func TestStateChangesJSON(t *testing.T) {
	out, err := stateChangesJSON([]ec2types.InstanceStateChange{{
		InstanceId:    aws.String("i-0123"),
		CurrentState:  &ec2types.InstanceState{Code: aws.Int32(0), Name: ec2types.InstanceStateNamePending},
		PreviousState: &ec2types.InstanceState{Code: aws.Int32(80), Name: ec2types.InstanceStateNameStopped},
	}})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"InstanceId":"i-0123"`, `"Name":"pending"`, `"Name":"stopped"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
}
