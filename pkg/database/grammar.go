package database

// Grammar, QueryBuilder state'ini belirli bir SQL dialect'ine derler.
// Tüm Compile* metodları SQL metni ve placeholder argümanlarını birlikte döndürür.
type Grammar interface {
	// Wrap, identifier'ı dialect'in quote karakterleriyle sarar.
	Wrap(value string) (string, error)

	CompileSelect(qb *QueryBuilder) (string, []interface{}, error)

	CompileInsert(table string, data map[string]interface{}) (string, []interface{}, error)

	CompileUpdate(table string, data map[string]interface{}, wheres []WhereClause) (string, []interface{}, error)

	CompileDelete(table string, wheres []WhereClause) (string, []interface{}, error)
}
