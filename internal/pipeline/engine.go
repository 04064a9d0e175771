// Package pipeline implements the build-and-release pipeline: a linear
// sequence of steps (checkout, toolchain setup, build, artifact upload,
// conditional release publish) where any step failure is fatal to the run.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"

	"github.com/unitykit/unity-guid-rewriter/internal/artifact"
	"github.com/unitykit/unity-guid-rewriter/internal/executor"
	"github.com/unitykit/unity-guid-rewriter/internal/refutil"
	"github.com/unitykit/unity-guid-rewriter/internal/registry"
	"github.com/unitykit/unity-guid-rewriter/internal/release"
)

// Step names in pipeline order.
const (
	StepCheckout       = "checkout"
	StepToolchain      = "toolchain-setup"
	StepBuild          = "build"
	StepArtifactUpload = "artifact-upload"
	StepReleasePublish = "release-publish"
)

// Event is the trigger that starts a run.
type Event struct {
	Trigger registry.Trigger
	Ref     string
}

// StepResult is the recorded outcome of one pipeline step.
type StepResult struct {
	Name   string
	Status string
	Detail string
}

// Result summarizes a finished run.
type Result struct {
	RunID      string
	State      State
	Steps      []StepResult
	Artifact   artifact.Stored
	ReleaseTag string // empty when the publish step was skipped
}

// Engine executes pipeline runs. Each run gets its own workspace and its own
// artifact namespace; two concurrent engines over the same data directory do
// not share mutable state.
type Engine struct {
	Spec       Spec
	Repo       *registry.Repository
	Runner     executor.Runner
	Artifacts  *artifact.Store
	Publisher  *release.Publisher
	Workspaces string    // root directory for per-run checkouts
	Out        io.Writer // progress lines; nil discards
}

type stepFunc func(ctx context.Context, run *runContext) error

// runContext carries per-run mutable state between steps.
type runContext struct {
	id        string
	ref       string
	workspace string
	stored    artifact.Stored
}

// Run executes the full step sequence for ev. The returned Result reflects
// the run even when err is non-nil; the error carries the failing step.
func (e *Engine) Run(ctx context.Context, ev Event) (*Result, error) {
	if err := refutil.ValidateRef(ev.Ref); err != nil {
		return nil, err
	}
	out := e.Out
	if out == nil {
		out = io.Discard
	}

	runID := uuid.NewString()
	if err := e.Repo.CreateRun(runID, e.Spec.Name, ev.Trigger, ev.Ref); err != nil {
		return nil, err
	}

	run := &runContext{
		id:        runID,
		ref:       ev.Ref,
		workspace: filepath.Join(e.Workspaces, runID),
	}
	machine := NewMachine()
	res := &Result{RunID: runID, State: machine.Current()}

	steps := []struct {
		name  string
		state State
		fn    stepFunc
	}{
		{StepCheckout, StateCheckedOut, e.checkout},
		{StepToolchain, StateToolchainReady, e.toolchainSetup},
		{StepBuild, StateBuilt, e.build},
		{StepArtifactUpload, StateArtifactStored, e.artifactUpload},
	}

	for i, s := range steps {
		fmt.Fprintf(out, "-> %s\n", s.name)
		if err := s.fn(ctx, run); err != nil {
			return e.failRun(res, machine, i+1, s.name, err)
		}
		if err := machine.Advance(s.state); err != nil {
			return e.failRun(res, machine, i+1, s.name, err)
		}
		if err := e.Repo.RecordStep(runID, i+1, s.name, registry.StepSucceeded, ""); err != nil {
			return e.failRun(res, machine, i+1, s.name, err)
		}
		res.Steps = append(res.Steps, StepResult{Name: s.name, Status: registry.StepSucceeded})
	}
	res.Artifact = run.stored

	// Conditional release publish: only tag refs publish; everything else
	// skips the step without failing.
	pos := len(steps) + 1
	if !refutil.IsTag(ev.Ref) {
		detail := "ref is not a tag"
		fmt.Fprintf(out, "-- %s skipped (%s)\n", StepReleasePublish, detail)
		if err := e.Repo.RecordStep(runID, pos, StepReleasePublish, registry.StepSkipped, detail); err != nil {
			return e.failRun(res, machine, pos, StepReleasePublish, err)
		}
		res.Steps = append(res.Steps, StepResult{Name: StepReleasePublish, Status: registry.StepSkipped, Detail: detail})
		if err := machine.Advance(StateDone); err != nil {
			return e.failRun(res, machine, pos, StepReleasePublish, err)
		}
		return e.finishRun(res, machine)
	}

	fmt.Fprintf(out, "-> %s\n", StepReleasePublish)
	tag, err := e.releasePublish(ctx, run)
	if err != nil {
		return e.failRun(res, machine, pos, StepReleasePublish, err)
	}
	if err := machine.Advance(StateReleased); err != nil {
		return e.failRun(res, machine, pos, StepReleasePublish, err)
	}
	if err := e.Repo.RecordStep(runID, pos, StepReleasePublish, registry.StepSucceeded, tag); err != nil {
		return e.failRun(res, machine, pos, StepReleasePublish, err)
	}
	res.Steps = append(res.Steps, StepResult{Name: StepReleasePublish, Status: registry.StepSucceeded, Detail: tag})
	res.ReleaseTag = tag
	return e.finishRun(res, machine)
}

// Plan returns the step sequence ev would execute, without side effects.
func (e *Engine) Plan(ev Event) []string {
	steps := []string{StepCheckout, StepToolchain, StepBuild, StepArtifactUpload}
	if refutil.IsTag(ev.Ref) {
		return append(steps, StepReleasePublish)
	}
	return append(steps, StepReleasePublish+" (skipped: ref is not a tag)")
}

func (e *Engine) finishRun(res *Result, machine *Machine) (*Result, error) {
	res.State = machine.Current()
	if err := e.Repo.FinishRun(res.RunID, registry.StatusSucceeded, ""); err != nil {
		return res, err
	}
	return res, nil
}

// failRun records the failing step, marks the run failed, and returns the
// step error. There is no retry and no rollback: earlier side effects (the
// uploaded artifact included) are left in place.
func (e *Engine) failRun(res *Result, machine *Machine, pos int, stepName string, stepErr error) (*Result, error) {
	_ = machine.Fail()
	res.State = machine.Current()
	res.Steps = append(res.Steps, StepResult{Name: stepName, Status: registry.StepFailed, Detail: stepErr.Error()})
	_ = e.Repo.RecordStep(res.RunID, pos, stepName, registry.StepFailed, stepErr.Error())
	_ = e.Repo.FinishRun(res.RunID, registry.StatusFailed, fmt.Sprintf("%s: %v", stepName, stepErr))
	return res, fmt.Errorf("%s: %w", stepName, stepErr)
}

// ResolveHeadRef returns the symbolic ref of the source's HEAD for manual
// dispatch triggers. Falls back to refs/heads/main for non-git sources.
func ResolveHeadRef(ctx context.Context, r executor.Runner, source string) string {
	var out bytes.Buffer
	cmd := shellquote.Join("git", "-C", source, "symbolic-ref", "-q", "HEAD")
	if err := r.Execute(ctx, cmd, "", nil, &out, io.Discard); err == nil {
		if ref := strings.TrimSpace(out.String()); ref != "" {
			return ref
		}
	}
	return "refs/heads/main"
}
