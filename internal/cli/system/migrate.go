package system

import (
	"fmt"

	"github.com/julianstephens/daylog/internal/cli"
)

// migrator is implemented by stores with a versioned schema.
type migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaStatus() (current, pending int, err error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("storage backend does not support migrations")
	}
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	count, err := m.Migrate(func(msg string) { ctx.Println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if count > 0 {
		ctx.Printf("✓ Applied %d migration(s)\n", count)
	}
	return nil
}
