package habits

import (
	"context"
	"fmt"

	"github.com/julianstephens/daylog/internal/cli"
)

type HabitsCmd struct {
	List      ListCmd      `cmd:"" default:"1" help:"List configured habits."`
	Add       AddCmd       `cmd:"" help:"Add a habit."`
	Remove    RemoveCmd    `cmd:"" aliases:"rm" help:"Remove a habit. Past logs keep their entries."`
	Move      MoveCmd      `cmd:"" help:"Move a habit to a position in the list."`
	Rename    RenameCmd    `cmd:"" help:"Rename a habit."`
	Skippable SkippableCmd `cmd:"" help:"Allow or disallow skipping a habit."`
	Icon      IconCmd      `cmd:"" help:"Change a habit's icon."`
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}

	cfg := hs.Config()
	if len(cfg.Habits) == 0 {
		ctx.Println("No habits configured. Add one with 'daylog habits add <name>'.")
		return nil
	}
	for i, h := range cfg.Habits {
		line := fmt.Sprintf("%2d. %s (%s)", i+1, h.Name, h.Icon)
		if h.Skippable {
			line += " [skippable]"
		}
		ctx.Println(line)
	}
	return nil
}

type AddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Icon      string `help:"Icon name shown next to the habit."`
	Skippable bool   `help:"Allow the habit to be skipped without breaking its streak."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	if err := hs.AddHabit(context.Background(), c.Name, c.Icon, c.Skippable); err != nil {
		return err
	}
	ctx.Printf("Added habit: %s\n", c.Name)
	return nil
}

type RemoveCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *RemoveCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	if err := hs.RemoveHabit(context.Background(), c.Name); err != nil {
		return err
	}
	ctx.Printf("Removed habit: %s\n", c.Name)
	return nil
}

type MoveCmd struct {
	Name     string `arg:"" help:"Habit name."`
	Position int    `arg:"" help:"New position, starting at 1."`
}

func (c *MoveCmd) Run(ctx *cli.Context) error {
	if c.Position < 1 {
		return fmt.Errorf("position must be at least 1, got %d", c.Position)
	}
	hs, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	if err := hs.MoveHabit(context.Background(), c.Name, c.Position-1); err != nil {
		return err
	}
	ctx.Printf("Moved %s to position %d\n", c.Name, hs.Config().IndexOf(c.Name)+1)
	return nil
}

type RenameCmd struct {
	Old string `arg:"" help:"Current habit name."`
	New string `arg:"" help:"New habit name."`
}

func (c *RenameCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	if err := hs.RenameHabit(context.Background(), c.Old, c.New); err != nil {
		return err
	}
	ctx.Printf("Renamed %s to %s\n", c.Old, c.New)
	ctx.Println("Days already logged keep their entry under the old name.")
	return nil
}

type SkippableCmd struct {
	Name string `arg:"" help:"Habit name."`
	Off  bool   `help:"Disallow skipping instead."`
}

func (c *SkippableCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	if err := hs.SetSkippable(context.Background(), c.Name, !c.Off); err != nil {
		return err
	}
	if c.Off {
		ctx.Printf("%s can no longer be skipped\n", c.Name)
	} else {
		ctx.Printf("%s can now be skipped\n", c.Name)
	}
	return nil
}

type IconCmd struct {
	Name string `arg:"" help:"Habit name."`
	Icon string `arg:"" help:"Icon name."`
}

func (c *IconCmd) Run(ctx *cli.Context) error {
	hs, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	if err := hs.SetIcon(context.Background(), c.Name, c.Icon); err != nil {
		return err
	}
	h, _ := hs.Config().Habit(c.Name)
	ctx.Printf("%s icon set to %s\n", c.Name, h.Icon)
	return nil
}
