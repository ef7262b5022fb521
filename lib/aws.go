package lib

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

var sess *aws.Config
var sessLock sync.RWMutex
var sessRegional = make(map[string]*aws.Config)

func Session() *aws.Config {
	sessLock.Lock()
	defer sessLock.Unlock()
	if sess == nil {
		cfg, err := config.LoadDefaultConfig(
			context.Background(),
			config.WithRetryMaxAttempts(5),
		)
		panic1(err)
		sess = &cfg
	}
	return sess
}

func SessionRegion(region string) (*aws.Config, error) {
	sessLock.Lock()
	defer sessLock.Unlock()
	cfg, ok := sessRegional[region]
	if !ok {
		loaded, err := config.LoadDefaultConfig(
			context.Background(),
			config.WithRegion(region),
			config.WithRetryMaxAttempts(5),
		)
		if err != nil {
			return nil, err
		}
		cfg = &loaded
		sessRegional[region] = cfg
	}
	return cfg, nil
}
