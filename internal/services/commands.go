package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	apperrors "github.com/fsulib/run-remote-script/internal/errors"
)

// InvocationLister abstracts the SSM ListCommandInvocations operation for testing
type InvocationLister interface {
	ListCommandInvocations(ctx context.Context, params *ssm.ListCommandInvocationsInput, optFns ...func(*ssm.Options)) (*ssm.ListCommandInvocationsOutput, error)
}

// Invocation is the outcome of a command on one instance
type Invocation struct {
	InstanceID    string    `json:"instance_id"`
	InstanceName  string    `json:"instance_name,omitempty"`
	Status        string    `json:"status"`
	StatusDetails string    `json:"status_details,omitempty"`
	RequestedAt   time.Time `json:"requested_at,omitempty"`
}

// CommandStatusService reports per-instance progress of a sent command.
type CommandStatusService struct {
	client InvocationLister
}

func NewCommandStatusService(client InvocationLister) *CommandStatusService {
	return &CommandStatusService{client: client}
}

// ListInvocations returns every invocation of commandID across all pages.
func (c *CommandStatusService) ListInvocations(ctx context.Context, commandID string) ([]Invocation, error) {
	if commandID == "" {
		return nil, apperrors.ErrMissingCommandID
	}

	var (
		invocations []Invocation
		nextToken   *string
	)
	for {
		result, err := c.client.ListCommandInvocations(ctx, &ssm.ListCommandInvocationsInput{
			CommandId: aws.String(commandID),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list invocations for command %s: %w", commandID, err)
		}

		for _, inv := range result.CommandInvocations {
			invocations = append(invocations, Invocation{
				InstanceID:    aws.ToString(inv.InstanceId),
				InstanceName:  aws.ToString(inv.InstanceName),
				Status:        string(inv.Status),
				StatusDetails: aws.ToString(inv.StatusDetails),
				RequestedAt:   aws.ToTime(inv.RequestedDateTime),
			})
		}

		if aws.ToString(result.NextToken) == "" {
			break
		}
		nextToken = result.NextToken
	}

	return invocations, nil
}
