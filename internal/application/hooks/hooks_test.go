package hooks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/manufactura-api/internal/application/hooks"
)

type doc struct{ trail []string }

func TestRegistry_RunEnOrdenYCorta(t *testing.T) {
	boom := errors.New("boom")
	reg := hooks.NewRegistry[*doc]("Test")
	reg.On(hooks.Validate, "a", func(_ context.Context, _ *hooks.Scope, d *doc) error {
		d.trail = append(d.trail, "a")
		return nil
	}).On(hooks.Validate, "b", func(_ context.Context, _ *hooks.Scope, d *doc) error {
		d.trail = append(d.trail, "b")
		return boom
	}).On(hooks.Validate, "c", func(_ context.Context, _ *hooks.Scope, d *doc) error {
		d.trail = append(d.trail, "c")
		return nil
	})

	scope := &hooks.Scope{Log: zerolog.Nop()}
	d := &doc{}
	err := reg.Run(context.Background(), hooks.Validate, scope, d)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, d.trail)
	assert.Equal(t, []string{"a", "b", "c"}, reg.Names(hooks.Validate))
}

func TestRegistry_EventoSinHooks(t *testing.T) {
	reg := hooks.NewRegistry[*doc]("Test")
	assert.NoError(t, reg.Run(context.Background(), hooks.OnSubmit, &hooks.Scope{Log: zerolog.Nop()}, &doc{}))
	assert.Empty(t, reg.Names(hooks.OnSubmit))
}

func TestScope_Msgprint(t *testing.T) {
	s := &hooks.Scope{}
	s.Msgprint("uno")
	s.Msgprint("dos")
	assert.Equal(t, []string{"uno", "dos"}, s.Messages())
}

func TestScope_AfterCommit(t *testing.T) {
	s := &hooks.Scope{}
	var got []int
	s.AfterCommit(func() { got = append(got, 1) })
	s.AfterCommit(func() { got = append(got, 2) })
	assert.Empty(t, got)

	s.Committed()
	assert.Equal(t, []int{1, 2}, got)
	s.Committed()
	assert.Equal(t, []int{1, 2}, got, "no repite las funciones ya ejecutadas")
}
