package migration

import (
	"fmt"
	"strings"
)

// MySQLGrammar, Blueprint'i InnoDB/utf8mb4 DDL'ine derler.
type MySQLGrammar struct{}

func NewMySQLGrammar() *MySQLGrammar {
	return &MySQLGrammar{}
}

func (g *MySQLGrammar) CompileCreateTable(table string, columns []Column, indexes []Index, foreigns []ForeignKey, checks []Check) string {
	defs := make([]string, 0, len(columns)+len(indexes)+len(foreigns)+len(checks))

	for _, column := range columns {
		defs = append(defs, g.compileColumn(column))
	}
	for _, index := range indexes {
		defs = append(defs, g.compileIndex(index))
	}
	for _, fk := range foreigns {
		defs = append(defs, g.compileForeign(fk))
	}
	for _, check := range checks {
		defs = append(defs, fmt.Sprintf("CONSTRAINT `%s` CHECK (%s)", check.Name, check.Expression))
	}

	return fmt.Sprintf("CREATE TABLE `%s` (\n  %s\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci",
		table, strings.Join(defs, ",\n  "))
}

func (g *MySQLGrammar) CompileDropTable(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS `%s`", table)
}

func (g *MySQLGrammar) CompileAddColumn(table string, column Column) string {
	return fmt.Sprintf("ALTER TABLE `%s` ADD COLUMN %s", table, g.compileColumn(column))
}

func (g *MySQLGrammar) CompileDropColumn(table string, columnName string) string {
	return fmt.Sprintf("ALTER TABLE `%s` DROP COLUMN `%s`", table, columnName)
}

func (g *MySQLGrammar) CompileAddIndex(table string, index Index) string {
	return fmt.Sprintf("ALTER TABLE `%s` ADD %s", table, g.compileIndex(index))
}

func (g *MySQLGrammar) CompileDropIndex(table string, indexName string) string {
	return fmt.Sprintf("ALTER TABLE `%s` DROP INDEX `%s`", table, indexName)
}

func (g *MySQLGrammar) compileColumn(column Column) string {
	parts := []string{fmt.Sprintf("`%s`", column.Name)}

	switch {
	case column.Type == ColumnTypeString && column.Length > 0:
		parts = append(parts, fmt.Sprintf("%s(%d)", column.Type, column.Length))
	case column.Type == ColumnTypeDecimal && column.Precision > 0:
		parts = append(parts, fmt.Sprintf("%s(%d,%d)", column.Type, column.Precision, column.Scale))
	default:
		parts = append(parts, string(column.Type))
	}

	if column.IsNullable {
		parts = append(parts, "NULL")
	} else {
		parts = append(parts, "NOT NULL")
	}

	if column.AutoIncrement {
		parts = append(parts, "AUTO_INCREMENT")
	}

	switch {
	case column.DefaultRaw != "":
		parts = append(parts, "DEFAULT "+column.DefaultRaw)
	case column.DefaultValue != nil:
		if str, ok := column.DefaultValue.(string); ok {
			parts = append(parts, fmt.Sprintf("DEFAULT '%s'", strings.ReplaceAll(str, "'", "''")))
		} else {
			parts = append(parts, fmt.Sprintf("DEFAULT %v", column.DefaultValue))
		}
	}

	if column.Primary {
		parts = append(parts, "PRIMARY KEY")
	}

	if column.IsUnique {
		parts = append(parts, "UNIQUE")
	}

	return strings.Join(parts, " ")
}

func quoteColumns(columns []string) string {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = fmt.Sprintf("`%s`", col)
	}
	return strings.Join(quoted, ", ")
}

func (g *MySQLGrammar) compileIndex(index Index) string {
	if index.Type == IndexTypeUnique {
		return fmt.Sprintf("UNIQUE KEY `%s` (%s)", index.Name, quoteColumns(index.Columns))
	}
	return fmt.Sprintf("INDEX `%s` (%s)", index.Name, quoteColumns(index.Columns))
}

func (g *MySQLGrammar) compileForeign(fk ForeignKey) string {
	sql := fmt.Sprintf("CONSTRAINT `%s` FOREIGN KEY (`%s`) REFERENCES `%s` (`%s`)",
		fk.Name, fk.Column, fk.ReferencedTable, fk.ReferencedColumn)
	if fk.OnDeleteAction != "" {
		sql += " ON DELETE " + fk.OnDeleteAction
	}
	return sql
}
