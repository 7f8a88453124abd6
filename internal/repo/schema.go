package repo

import _ "embed"

var (
	//go:embed schema/postgres.sql
	postgresSchema string

	//go:embed schema/mysql.sql
	mysqlSchema string
)
