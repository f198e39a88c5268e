package logs

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/session"
)

func textArg(text string, clear bool, what string) (string, error) {
	text = strings.TrimSpace(text)
	if clear {
		return "", nil
	}
	if text == "" {
		return "", fmt.Errorf("%s cannot be empty, use --clear to remove it", what)
	}
	return text, nil
}

func editField(ctx *cli.Context, date, label string, fn func(s *session.Session) error) error {
	s, err := ctx.Edit(context.Background(), date, fn)
	if err != nil {
		return err
	}
	ctx.Printf("✓ %s updated for %s\n", label, s.SelectedDate())
	return nil
}

type GoalCmd struct {
	Text  string `arg:"" optional:"" help:"Goal for the day."`
	Clear bool   `help:"Remove the goal."`
	Date  string `help:"Date (YYYY-MM-DD, today or yesterday). Defaults to today."`
}

func (c *GoalCmd) Run(ctx *cli.Context) error {
	text, err := textArg(c.Text, c.Clear, "goal")
	if err != nil {
		return err
	}
	return editField(ctx, c.Date, "Goal", func(s *session.Session) error { return s.SetGoal(text) })
}

type NoteCmd struct {
	Text  string `arg:"" optional:"" help:"Free-form note for the day."`
	Clear bool   `help:"Remove the note."`
	Date  string `help:"Date (YYYY-MM-DD, today or yesterday). Defaults to today."`
}

func (c *NoteCmd) Run(ctx *cli.Context) error {
	text, err := textArg(c.Text, c.Clear, "note")
	if err != nil {
		return err
	}
	return editField(ctx, c.Date, "Note", func(s *session.Session) error { return s.SetNote(text) })
}

type WordCmd struct {
	Text  string `arg:"" optional:"" help:"Word of the day as \"word - definition\"."`
	Clear bool   `help:"Remove the word of the day."`
	Date  string `help:"Date (YYYY-MM-DD, today or yesterday). Defaults to today."`
}

func (c *WordCmd) Run(ctx *cli.Context) error {
	text, err := textArg(c.Text, c.Clear, "word")
	if err != nil {
		return err
	}
	return editField(ctx, c.Date, "Word", func(s *session.Session) error { return s.SetWord(models.ParseWord(text)) })
}

type SongCmd struct {
	Text  string `arg:"" optional:"" help:"Song as \"artist - title\"."`
	Clear bool   `help:"Remove the song."`
	Date  string `help:"Date (YYYY-MM-DD, today or yesterday). Defaults to today."`
}

func (c *SongCmd) Run(ctx *cli.Context) error {
	text, err := textArg(c.Text, c.Clear, "song")
	if err != nil {
		return err
	}
	return editField(ctx, c.Date, "Song", func(s *session.Session) error { return s.SetSong(models.ParseSong(text)) })
}

type MoodCmd struct {
	Value string `arg:"" optional:"" help:"Mood from 0 (awful) to 4 (great)."`
	Clear bool   `help:"Remove the mood."`
	Date  string `help:"Date (YYYY-MM-DD, today or yesterday). Defaults to today."`
}

func (c *MoodCmd) Run(ctx *cli.Context) error {
	if c.Clear {
		return editField(ctx, c.Date, "Mood", func(s *session.Session) error { return s.ClearMood() })
	}
	mood, err := strconv.Atoi(strings.TrimSpace(c.Value))
	if err != nil {
		return fmt.Errorf("%w: %q", models.ErrInvalidMood, c.Value)
	}
	return editField(ctx, c.Date, "Mood", func(s *session.Session) error { return s.SetMood(mood) })
}

// MoodLabels names each mood value.
var MoodLabels = [constants.MaxMood - constants.MinMood + 1]string{"awful", "bad", "okay", "good", "great"}

type AffirmCmd struct {
	Affirmation string `arg:"" optional:"" help:"Affirmation text or its number from the list. Omit to list them."`
	Date        string `help:"Date (YYYY-MM-DD, today or yesterday). Defaults to today."`
}

func (c *AffirmCmd) Run(ctx *cli.Context) error {
	if strings.TrimSpace(c.Affirmation) == "" {
		return c.list(ctx)
	}

	var text string
	var selected bool
	_, err := ctx.Edit(context.Background(), c.Date, func(s *session.Session) error {
		t, err := resolveAffirmation(s.Config().EffectiveAffirmations(), c.Affirmation)
		if err != nil {
			return err
		}
		text = t
		if err := s.ToggleAffirmation(t); err != nil {
			return err
		}
		selected = s.Log().HasAffirmation(t)
		return nil
	})
	if err != nil {
		return err
	}

	if selected {
		ctx.Printf("✓ Selected %q\n", text)
	} else {
		ctx.Printf("✓ Deselected %q\n", text)
	}
	return nil
}

func (c *AffirmCmd) list(ctx *cli.Context) error {
	s, err := ctx.OpenSession(context.Background(), c.Date)
	if err != nil {
		return err
	}
	defer s.Close()

	log := s.Log()
	for i, a := range s.Config().EffectiveAffirmations() {
		mark := "[ ]"
		if log.HasAffirmation(a) {
			mark = "[x]"
		}
		ctx.Printf("%2d. %s %s\n", i+1, mark, a)
	}
	return nil
}

// resolveAffirmation accepts a 1-based index into affs or the exact text.
func resolveAffirmation(affs []string, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(affs) {
			return "", fmt.Errorf("%w: no affirmation #%d", session.ErrUnknownAffirmation, n)
		}
		return affs[n-1], nil
	}
	for _, a := range affs {
		if strings.EqualFold(a, arg) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", session.ErrUnknownAffirmation, arg)
}
