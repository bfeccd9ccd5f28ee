package introspect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/cresho/mygrate/pkg/definition"
	"github.com/cresho/mygrate/pkg/testutils"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStaticFetcher(t *testing.T) {
	s := Static{"users": definition.Raw("CREATE TABLE `users` ()")}

	raw, err := s.FetchRawDefinition(t.Context(), "", "users")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "CREATE TABLE")

	_, err = s.FetchRawDefinition(t.Context(), "", "missing")
	assert.True(t, errors.Is(err, ErrNoDefinition))
}

func TestDBFetcherNilHandle(t *testing.T) {
	d := NewDB(nil)
	_, err := d.FetchRawDefinition(t.Context(), "", "users")
	assert.True(t, errors.Is(err, ErrNoDefinition))
}

func TestDBFetcher(t *testing.T) {
	db := testutils.Open(t)
	testutils.RunSQL(t, "DROP TABLE IF EXISTS test.introspect_t1")
	testutils.RunSQL(t, "CREATE TABLE test.introspect_t1 (id bigint NOT NULL, KEY `ix_id` (`id`))")

	d := NewDB(db)
	raw, err := d.FetchRawDefinition(t.Context(), "test", "introspect_t1")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "CREATE TABLE")
	assert.Contains(t, string(raw), "`ix_id`")

	_, err = d.FetchRawDefinition(t.Context(), "test", "introspect_nope")
	assert.True(t, errors.Is(err, ErrNoDefinition))
}
