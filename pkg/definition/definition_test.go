package definition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleDefinition = Raw("CREATE TABLE `users` (\n" +
	"  `id` int(11) NOT NULL AUTO_INCREMENT,\n" +
	"  `email` varchar(255) NOT NULL,\n" +
	"  `bio` text,\n" +
	"  `created_at` datetime(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),\n" +
	"  PRIMARY KEY (`id`),\n" +
	"  UNIQUE KEY `ux_email` (`email`) USING BTREE,\n" +
	"  KEY `ix_created` (`created_at`),\n" +
	"  FULLTEXT KEY `ft_bio` (`bio`)\n" +
	") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4")

func TestExtractColumn(t *testing.T) {
	clause, err := ExtractColumn(sampleDefinition, "id")
	assert.NoError(t, err)
	assert.Equal(t, "int(11) NOT NULL AUTO_INCREMENT", clause)

	clause, err = ExtractColumn(sampleDefinition, "email")
	assert.NoError(t, err)
	assert.Equal(t, "varchar(255) NOT NULL", clause)

	// Last-position clause has no trailing comma.
	clause, err = ExtractColumn(sampleDefinition, "created_at")
	assert.NoError(t, err)
	assert.Equal(t, "datetime(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)", clause)
}

func TestExtractColumnNotFound(t *testing.T) {
	_, err := ExtractColumn(sampleDefinition, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "missing")

	// Case-sensitive on the identifier.
	_, err = ExtractColumn(sampleDefinition, "EMAIL")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExtractIndex(t *testing.T) {
	prefix, clause, err := ExtractIndex(sampleDefinition, "ux_email")
	assert.NoError(t, err)
	assert.Equal(t, "UNIQUE KEY", prefix)
	assert.Equal(t, "(`email`) USING BTREE", clause)

	prefix, clause, err = ExtractIndex(sampleDefinition, "ix_created")
	assert.NoError(t, err)
	assert.Equal(t, "KEY", prefix)
	assert.Equal(t, "(`created_at`)", clause)

	prefix, clause, err = ExtractIndex(sampleDefinition, "ft_bio")
	assert.NoError(t, err)
	assert.Equal(t, "FULLTEXT KEY", prefix)
	assert.Equal(t, "(`bio`)", clause)
}

func TestExtractIndexNotFound(t *testing.T) {
	_, _, err := ExtractIndex(sampleDefinition, "no_such_index")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "no_such_index")
}
