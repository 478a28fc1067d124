// Package termination defines the System Termination simulation job.
//
// The scenario is a fixed four-step sequence:
//
//  1. enterWorldStep    - enter the simulation world
//  2. meetNPCStep       - meet the administrator NPC and receive the mission
//  3. defeatProcessStep - terminate zombie processes, repeating until the target is met
//  4. completeQuestStep - report mission success and the reward
//
// Only defeatProcessStep repeats. Its progress counter lives in the job's
// execution context, so every run starts from zero.
package termination

import (
	"context"
	"fmt"

	"systerm/internal/config"
	"systerm/internal/job"
)

// Step names, in execution order.
const (
	StepEnterWorld    = "enterWorldStep"
	StepMeetNPC       = "meetNPCStep"
	StepDefeatProcess = "defeatProcessStep"
	StepCompleteQuest = "completeQuestStep"
)

// CounterKey is the execution context counter holding terminated processes.
const CounterKey = "processKilled"

// Narrator receives the narrative lines emitted by the steps.
// The [output.Printer] type implements this interface.
type Narrator interface {
	Narrative(line string)
}

// Steps returns the four scenario steps configured by cfg.
func Steps(cfg config.JobConfig, narrator Narrator) []job.Step {
	d := &definition{cfg: cfg, narrator: narrator}
	return []job.Step{
		job.NewStep(StepEnterWorld, job.FinishedTasklet(d.enterWorld)),
		job.NewStep(StepMeetNPC, job.FinishedTasklet(d.meetNPC)),
		job.NewStep(StepDefeatProcess, d.defeatProcess),
		job.NewStep(StepCompleteQuest, job.FinishedTasklet(d.completeQuest)),
	}
}

// NewJob builds the scenario sequencer. cfg is validated first, so an
// invalid target is reported before anything runs.
func NewJob(cfg *config.Config, narrator Narrator, opts ...job.Option) (*job.Sequencer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", job.ErrInvalidJob, err)
	}
	return job.NewSequencer(cfg.Job.Name, Steps(cfg.Job, narrator), opts...)
}

type definition struct {
	cfg      config.JobConfig
	narrator Narrator
}

// say renders each message with data and emits them in order.
func (d *definition) say(data config.MessageData, keys ...string) error {
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		line, err := d.cfg.Messages.Render(key, data)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}
	for _, line := range lines {
		d.narrator.Narrative(line)
	}
	return nil
}

func (d *definition) enterWorld(ctx context.Context, sc *job.StepContext) error {
	return d.say(d.data(sc), config.MessageEnter)
}

func (d *definition) meetNPC(ctx context.Context, sc *job.StepContext) error {
	return d.say(d.data(sc), config.MessageGreeting, config.MessageMission)
}

func (d *definition) defeatProcess(ctx context.Context, sc *job.StepContext) (job.RepeatStatus, error) {
	terminated := sc.Execution.Increment(CounterKey)
	if err := d.say(config.MessageData{Current: terminated, Target: d.cfg.Target}, config.MessageProgress); err != nil {
		return job.Finished, err
	}

	if terminated < d.cfg.Target {
		return job.ContinueRepeating, nil
	}
	return job.Finished, nil
}

func (d *definition) completeQuest(ctx context.Context, sc *job.StepContext) error {
	return d.say(d.data(sc), config.MessageSuccess, config.MessageReward)
}

func (d *definition) data(sc *job.StepContext) config.MessageData {
	return config.MessageData{
		Current: sc.Execution.Counter(CounterKey),
		Target:  d.cfg.Target,
	}
}
