package habits

import (
	"context"

	"github.com/julianstephens/daylog/internal/cli"
)

type AffirmationsCmd struct {
	List   AffirmationListCmd   `cmd:"" default:"1" help:"List affirmations."`
	Add    AffirmationAddCmd    `cmd:"" help:"Add an affirmation."`
	Remove AffirmationRemoveCmd `cmd:"" aliases:"rm" help:"Remove an affirmation."`
}

type AffirmationListCmd struct{}

func (c *AffirmationListCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	cfg := hs.Config()
	if len(cfg.Affirmations) == 0 {
		ctx.Println("Using the default affirmations:")
	}
	for i, a := range cfg.EffectiveAffirmations() {
		ctx.Printf("%2d. %s\n", i+1, a)
	}
	return nil
}

type AffirmationAddCmd struct {
	Text string `arg:"" help:"Affirmation text."`
}

func (c *AffirmationAddCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	if err := hs.AddAffirmation(context.Background(), c.Text); err != nil {
		return err
	}
	ctx.Printf("Added affirmation: %s\n", c.Text)
	return nil
}

type AffirmationRemoveCmd struct {
	Text string `arg:"" help:"Affirmation text."`
}

func (c *AffirmationRemoveCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	if err := hs.RemoveAffirmation(context.Background(), c.Text); err != nil {
		return err
	}
	ctx.Printf("Removed affirmation: %s\n", c.Text)
	return nil
}
