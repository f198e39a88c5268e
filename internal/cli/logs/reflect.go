package logs

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/session"
)

// reflection holds the form values for one day. Mood -1 means unset.
type reflection struct {
	Goal         string
	Word         string
	Song         string
	Mood         int
	Affirmations []string
	Note         string
}

func newReflection(log models.DailyLog) *reflection {
	r := &reflection{
		Goal:         models.StringValue(log.TodayGoal),
		Word:         models.StringValue(log.WordOfDay),
		Song:         models.StringValue(log.SongLink),
		Mood:         -1,
		Affirmations: append([]string{}, log.SelectedAffirmations...),
		Note:         models.StringValue(log.Note),
	}
	if log.Mood != nil {
		r.Mood = *log.Mood
	}
	return r
}

// patch converts the form into a single update for the log.
func (r *reflection) patch() models.LogPatch {
	word := models.ParseWord(r.Word).String()
	song := models.ParseSong(r.Song).String()
	p := models.LogPatch{
		TodayGoal:            models.Ptr(r.Goal),
		WordOfDay:            &word,
		SongLink:             &song,
		Note:                 models.Ptr(r.Note),
		SelectedAffirmations: append([]string{}, r.Affirmations...),
	}
	if r.Mood < 0 {
		p.ClearMood = true
	} else {
		p.Mood = models.Ptr(r.Mood)
	}
	return p
}

func (r *reflection) form(affirmations []string) *huh.Form {
	moods := []huh.Option[int]{huh.NewOption("not set", -1)}
	for i, label := range MoodLabels {
		moods = append(moods, huh.NewOption(fmt.Sprintf("%d · %s", i, label), i))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Goal").
				Description("What would make today a good day?").
				Value(&r.Goal),
			huh.NewInput().
				Title("Word of the day").
				Placeholder("word - definition").
				Value(&r.Word),
			huh.NewInput().
				Title("Song").
				Placeholder("artist - title").
				Value(&r.Song),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Mood").
				Options(moods...).
				Value(&r.Mood),
			huh.NewMultiSelect[string]().
				Title("Affirmations").
				Options(huh.NewOptions(affirmations...)...).
				Value(&r.Affirmations),
			huh.NewText().
				Title("Note").
				Value(&r.Note),
		),
	)
}

type ReflectCmd struct {
	Date string `help:"Date (YYYY-MM-DD, today or yesterday). Defaults to today."`
}

func (c *ReflectCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Edit(context.Background(), c.Date, func(s *session.Session) error {
		r := newReflection(s.Log())
		if err := r.form(s.Config().EffectiveAffirmations()).Run(); err != nil {
			return err
		}
		return s.Mutate(r.patch())
	})
	if errors.Is(err, huh.ErrUserAborted) {
		ctx.Println("Reflection cancelled, nothing saved.")
		return nil
	}
	if err != nil {
		return err
	}

	cli.WriteDay(ctx.Out, s.Log(), s.Config(), s.Editability())
	return nil
}
