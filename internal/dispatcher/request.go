package dispatcher

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/fsulib/run-remote-script/internal/config"
)

const (
	DocumentName = "AWS-RunRemoteScript"
	Comment      = "Scheduled database backup run."
	SourceType   = "GitHub"
	Interpreter  = "/bin/bash"
)

// SourceInfo tells AWS-RunRemoteScript where to fetch the script and which
// secure parameter holds the GitHub token.
type SourceInfo struct {
	TokenInfo  string `json:"tokenInfo"`
	Owner      string `json:"owner"`
	Repository string `json:"repository"`
	Path       string `json:"path"`
}

// Target selects instances by tag.
type Target struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// Parameters are the document parameters of AWS-RunRemoteScript.
type Parameters struct {
	SourceType  []string `json:"sourceType"`
	CommandLine []string `json:"commandLine"`
	SourceInfo  []string `json:"sourceInfo"`
}

// SendCommandRequest is the transport-neutral form of the SendCommand call.
type SendCommandRequest struct {
	DocumentName string     `json:"document_name"`
	Targets      []Target   `json:"targets"`
	Comment      string     `json:"comment"`
	Parameters   Parameters `json:"parameters"`
}

// TokenReference wraps a parameter store path in the secure-string
// substitution syntax SSM resolves when the document runs.
func TokenReference(tokenPath string) string {
	return "{ ssm-secure:" + tokenPath + " }"
}

// Marshal returns the compact JSON form expected by the sourceInfo parameter.
func (s SourceInfo) Marshal() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal source info: %w", err)
	}
	return string(data), nil
}

// ScriptName returns everything after the last slash of the script path.
// Unlike path.Base it keeps an empty result for "" or a trailing slash.
func ScriptName(scriptPath string) string {
	return scriptPath[strings.LastIndex(scriptPath, "/")+1:]
}

// CommandLine builds the shell invocation the instance runs:
//
//	/bin/bash <script> <tagValue> <appEnv> <bucket> <tarPaths>
func CommandLine(cfg config.Config) string {
	return strings.Join([]string{
		Interpreter,
		ScriptName(cfg.GHPath),
		cfg.TagValue,
		cfg.AppEnv,
		cfg.Bucket,
		cfg.TarPaths,
	}, " ")
}

// NewSourceInfo builds the SourceInfo for cfg.
func NewSourceInfo(cfg config.Config) SourceInfo {
	return SourceInfo{
		TokenInfo:  TokenReference(cfg.TokenInfo),
		Owner:      cfg.GHOwner,
		Repository: cfg.GHRepo,
		Path:       cfg.GHPath,
	}
}

// BuildRequest assembles the SendCommand request for a validated config.
func BuildRequest(cfg config.Config) (SendCommandRequest, error) {
	sourceInfo, err := NewSourceInfo(cfg).Marshal()
	if err != nil {
		return SendCommandRequest{}, err
	}

	return SendCommandRequest{
		DocumentName: DocumentName,
		Targets: []Target{
			{
				Key:    "tag:" + cfg.TagKey,
				Values: []string{cfg.TagValue},
			},
		},
		Comment: Comment,
		Parameters: Parameters{
			SourceType:  []string{SourceType},
			CommandLine: []string{CommandLine(cfg)},
			SourceInfo:  []string{sourceInfo},
		},
	}, nil
}

// Input converts the request to the SDK input type.
func (r SendCommandRequest) Input() *ssm.SendCommandInput {
	targets := make([]types.Target, 0, len(r.Targets))
	for _, t := range r.Targets {
		targets = append(targets, types.Target{
			Key:    aws.String(t.Key),
			Values: t.Values,
		})
	}

	return &ssm.SendCommandInput{
		DocumentName: aws.String(r.DocumentName),
		Targets:      targets,
		Comment:      aws.String(r.Comment),
		Parameters: map[string][]string{
			"sourceType":  r.Parameters.SourceType,
			"commandLine": r.Parameters.CommandLine,
			"sourceInfo":  r.Parameters.SourceInfo,
		},
	}
}
