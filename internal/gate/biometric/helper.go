package biometric

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// HelperPrompter bridges to the platform through an external helper binary
// (the desktop shell ships one per platform). The helper speaks JSON on
// stdout: `<helper> capability` reports hardware and enrolment,
// `<helper> challenge` reads ChallengeOptions on stdin and prints a Result.
type HelperPrompter struct {
	// Path is the helper binary location.
	Path string
}

type capabilityReport struct {
	Hardware bool `json:"hardware"`
	Enrolled bool `json:"enrolled"`
}

func (p *HelperPrompter) HasHardware(ctx context.Context) (bool, error) {
	report, err := p.capability(ctx)
	if err != nil {
		return false, err
	}
	return report.Hardware, nil
}

func (p *HelperPrompter) IsEnrolled(ctx context.Context) (bool, error) {
	report, err := p.capability(ctx)
	if err != nil {
		return false, err
	}
	return report.Enrolled, nil
}

func (p *HelperPrompter) Challenge(ctx context.Context, opts ChallengeOptions) (Result, error) {
	input, err := json.Marshal(opts)
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode challenge options: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.Path, "challenge")
	cmd.Stdin = bytes.NewReader(input)

	output, err := cmd.Output()
	if err != nil {
		return Result{}, fmt.Errorf("biometric helper challenge failed: %w", err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("failed to decode challenge result: %w", err)
	}
	return result, nil
}

func (p *HelperPrompter) capability(ctx context.Context) (capabilityReport, error) {
	cmd := exec.CommandContext(ctx, p.Path, "capability")

	output, err := cmd.Output()
	if err != nil {
		return capabilityReport{}, fmt.Errorf("biometric helper capability check failed: %w", err)
	}

	var report capabilityReport
	if err := json.Unmarshal(output, &report); err != nil {
		return capabilityReport{}, fmt.Errorf("failed to decode capability report: %w", err)
	}
	return report, nil
}
