package ssmutils

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParamStore is the subset of the SSM API the client calls. It allows mock
// implementations to be substituted for the real client in tests.
type ParamStore interface {
	GetParameter(ctx context.Context,
		params *ssm.GetParameterInput,
		optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

var _ ParamStore = (*ssm.Client)(nil)
