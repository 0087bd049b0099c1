// Package preflight verifies, before a scheduled run, that every external
// collaborator a configuration points at is reachable: the token parameter,
// the script in GitHub, and the archive bucket.
package preflight

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsulib/run-remote-script/internal/config"
	"github.com/fsulib/run-remote-script/internal/services"
	"github.com/rs/zerolog"
)

const (
	CheckToken  = "token"
	CheckScript = "script"
	CheckBucket = "bucket"
)

var errSkipped = errors.New("skipped: token unavailable")

// ScriptGetter looks up a script in a repository using a token.
type ScriptGetter interface {
	GetScript(ctx context.Context, token, owner, repo, path string) (*services.ScriptInfo, error)
}

// BucketChecker checks that a bucket is reachable.
type BucketChecker interface {
	CheckBucket(ctx context.Context, bucket string) error
}

// Check is the outcome of a single verification
type Check struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	Err    error  `json:"-"`
	Detail string `json:"detail,omitempty"`
}

func (c Check) OK() bool {
	return c.Err == nil
}

// Report collects every check in the order they ran.
type Report struct {
	Checks []Check `json:"checks"`
}

func (r Report) OK() bool {
	for _, c := range r.Checks {
		if !c.OK() {
			return false
		}
	}
	return true
}

// Err returns an error summarizing the failed checks, or nil.
func (r Report) Err() error {
	var failed []string
	for _, c := range r.Checks {
		if !c.OK() {
			failed = append(failed, c.Name)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("preflight failed: %v", failed)
}

type Verifier struct {
	params  services.ParameterStore
	scripts ScriptGetter
	buckets BucketChecker
}

func New(params services.ParameterStore, scripts ScriptGetter, buckets BucketChecker) *Verifier {
	return &Verifier{
		params:  params,
		scripts: scripts,
		buckets: buckets,
	}
}

// Verify runs every check. A failed token lookup skips the script check,
// which needs the token; the bucket check always runs.
func (v *Verifier) Verify(ctx context.Context, cfg config.Config) Report {
	logger := zerolog.Ctx(ctx)
	var report Report

	token, err := v.params.GetParameter(ctx, cfg.TokenInfo)
	report.Checks = append(report.Checks, Check{Name: CheckToken, Target: cfg.TokenInfo, Err: err})

	scriptTarget := fmt.Sprintf("%s/%s/%s", cfg.GHOwner, cfg.GHRepo, cfg.GHPath)
	if err != nil {
		report.Checks = append(report.Checks, Check{
			Name:   CheckScript,
			Target: scriptTarget,
			Err:    errSkipped,
		})
	} else {
		check := Check{Name: CheckScript, Target: scriptTarget}
		script, err := v.scripts.GetScript(ctx, token, cfg.GHOwner, cfg.GHRepo, cfg.GHPath)
		if err != nil {
			check.Err = err
		} else {
			check.Detail = fmt.Sprintf("sha %s, %d bytes", script.SHA, script.Size)
		}
		report.Checks = append(report.Checks, check)
	}

	err = v.buckets.CheckBucket(ctx, cfg.Bucket)
	report.Checks = append(report.Checks, Check{Name: CheckBucket, Target: cfg.Bucket, Err: err})

	for _, c := range report.Checks {
		event := logger.Info()
		if !c.OK() {
			event = logger.Warn().Err(c.Err)
		}
		event.
			Str("check", c.Name).
			Str("target", c.Target).
			Str("detail", c.Detail).
			Msg("Preflight check")
	}

	return report
}

// GitHubScripts adapts token-scoped GitHub clients to ScriptGetter.
type GitHubScripts struct{}

func (GitHubScripts) GetScript(ctx context.Context, token, owner, repo, path string) (*services.ScriptInfo, error) {
	svc := services.NewGitHubService(services.NewGitHubClient(ctx, token))
	return svc.GetScript(ctx, owner, repo, path)
}
