package sqlgen

import (
	"fmt"

	"github.com/cresho/mygrate/pkg/sqlfmt"
)

// Adding or dropping a primary key can silently strip a column's
// AUTO_INCREMENT attribute. The compensation below is a transient
// stored procedure that inspects the live catalog at apply time and
// conditionally restores (or pre-strips) the attribute. The
// create/call/drop envelope is appended to the current command as one
// logical unit: splitting it across round trips could leave an orphaned
// procedure behind.

const (
	addPrimaryKeyProc  = "POMELO_AFTER_ADD_PRIMARY_KEY"
	dropPrimaryKeyProc = "POMELO_BEFORE_DROP_PRIMARY_KEY"
)

// The create statements are idempotent (DROP PROCEDURE IF EXISTS first)
// so a previously failed migration cannot wedge a retry of the whole
// script.

const addPrimaryKeyProcSQL = `DROP PROCEDURE IF EXISTS ` + addPrimaryKeyProc + `;
CREATE PROCEDURE ` + addPrimaryKeyProc + `(IN SCHEMA_NAME_ARGUMENT VARCHAR(255), IN TABLE_NAME_ARGUMENT VARCHAR(255), IN COLUMN_NAME_ARGUMENT VARCHAR(255))
BEGIN
	DECLARE HAS_PRIMARY_KEY_INT_COLUMN TINYINT(1);
	DECLARE PRIMARY_KEY_TYPE VARCHAR(255);
	DECLARE SQL_EXP VARCHAR(1000);
	SELECT COUNT(*)
		INTO HAS_PRIMARY_KEY_INT_COLUMN
		FROM ` + "`information_schema`.`COLUMNS`" + `
		WHERE ` + "`TABLE_SCHEMA`" + ` = (SELECT IFNULL(SCHEMA_NAME_ARGUMENT, SCHEMA()))
			AND ` + "`TABLE_NAME`" + ` = TABLE_NAME_ARGUMENT
			AND ` + "`COLUMN_NAME`" + ` = COLUMN_NAME_ARGUMENT
			AND ` + "`COLUMN_TYPE`" + ` LIKE '%int%'
			AND ` + "`COLUMN_KEY`" + ` = 'PRI';
	IF HAS_PRIMARY_KEY_INT_COLUMN THEN
		SELECT ` + "`COLUMN_TYPE`" + `
			INTO PRIMARY_KEY_TYPE
			FROM ` + "`information_schema`.`COLUMNS`" + `
			WHERE ` + "`TABLE_SCHEMA`" + ` = (SELECT IFNULL(SCHEMA_NAME_ARGUMENT, SCHEMA()))
				AND ` + "`TABLE_NAME`" + ` = TABLE_NAME_ARGUMENT
				AND ` + "`COLUMN_NAME`" + ` = COLUMN_NAME_ARGUMENT;
		SET SQL_EXP = CONCAT('ALTER TABLE ` + "`" + `', (SELECT IFNULL(SCHEMA_NAME_ARGUMENT, SCHEMA())), '` + "`.`" + `', TABLE_NAME_ARGUMENT, '` + "`" + ` MODIFY COLUMN ` + "`" + `', COLUMN_NAME_ARGUMENT, '` + "`" + ` ', PRIMARY_KEY_TYPE, ' NOT NULL AUTO_INCREMENT');
		SET @SQL_EXP = SQL_EXP;
		PREPARE SQL_EXP_EXECUTE FROM @SQL_EXP;
		EXECUTE SQL_EXP_EXECUTE;
		DEALLOCATE PREPARE SQL_EXP_EXECUTE;
	END IF;
END`

const dropPrimaryKeyProcSQL = `DROP PROCEDURE IF EXISTS ` + dropPrimaryKeyProc + `;
CREATE PROCEDURE ` + dropPrimaryKeyProc + `(IN SCHEMA_NAME_ARGUMENT VARCHAR(255), IN TABLE_NAME_ARGUMENT VARCHAR(255))
BEGIN
	DECLARE AUTO_INCREMENT_COLUMN_NAME VARCHAR(255);
	DECLARE AUTO_INCREMENT_COLUMN_TYPE VARCHAR(255);
	DECLARE IS_NULLABLE VARCHAR(3);
	DECLARE SQL_EXP VARCHAR(1000);
	SELECT ` + "`COLUMN_NAME`, `COLUMN_TYPE`, `IS_NULLABLE`" + `
		INTO AUTO_INCREMENT_COLUMN_NAME, AUTO_INCREMENT_COLUMN_TYPE, IS_NULLABLE
		FROM ` + "`information_schema`.`COLUMNS`" + `
		WHERE ` + "`TABLE_SCHEMA`" + ` = (SELECT IFNULL(SCHEMA_NAME_ARGUMENT, SCHEMA()))
			AND ` + "`TABLE_NAME`" + ` = TABLE_NAME_ARGUMENT
			AND ` + "`EXTRA`" + ` LIKE '%auto_increment%'
			AND ` + "`COLUMN_KEY`" + ` = 'PRI'
		LIMIT 1;
	IF AUTO_INCREMENT_COLUMN_NAME IS NOT NULL THEN
		SET SQL_EXP = CONCAT('ALTER TABLE ` + "`" + `', (SELECT IFNULL(SCHEMA_NAME_ARGUMENT, SCHEMA())), '` + "`.`" + `', TABLE_NAME_ARGUMENT, '` + "`" + ` MODIFY COLUMN ` + "`" + `', AUTO_INCREMENT_COLUMN_NAME, '` + "`" + ` ', AUTO_INCREMENT_COLUMN_TYPE, IF(IS_NULLABLE = 'NO', ' NOT NULL', ''));
		SET @SQL_EXP = SQL_EXP;
		PREPARE SQL_EXP_EXECUTE FROM @SQL_EXP;
		EXECUTE SQL_EXP_EXECUTE;
		DEALLOCATE PREPARE SQL_EXP_EXECUTE;
	END IF;
END`

// appendRestoreAutoIncrement emits the post-ADD PRIMARY KEY envelope for
// a single-column key. Composite keys skip the compensation: there is no
// auto-increment ambiguity for them.
func appendRestoreAutoIncrement(b *builder, schema, table, column string) {
	b.stmt(addPrimaryKeyProcSQL)
	b.stmt(fmt.Sprintf("CALL %s(%s, %s, %s)",
		addPrimaryKeyProc, schemaArgument(schema), sqlfmt.QuoteString(table), sqlfmt.QuoteString(column)))
	b.stmt("DROP PROCEDURE " + addPrimaryKeyProc)
}

// appendStripAutoIncrement emits the pre-DROP PRIMARY KEY envelope.
func appendStripAutoIncrement(b *builder, schema, table string) {
	b.stmt(dropPrimaryKeyProcSQL)
	b.stmt(fmt.Sprintf("CALL %s(%s, %s)",
		dropPrimaryKeyProc, schemaArgument(schema), sqlfmt.QuoteString(table)))
	b.stmt("DROP PROCEDURE " + dropPrimaryKeyProc)
}

// The CALL arguments are trusted identifiers from the operation itself,
// substituted directly as literals. NULL lets the procedure fall back to
// SCHEMA().
func schemaArgument(schema string) string {
	if schema == "" {
		return "NULL"
	}
	return sqlfmt.QuoteString(schema)
}
