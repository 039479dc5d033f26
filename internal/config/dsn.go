package config

import (
	"fmt"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
)

const (
	defaultDBHost    = "127.0.0.1"
	defaultDBPort    = 3306
	defaultDBUser    = "root"
	defaultDBName    = "solstice"
	defaultDBCharset = "utf8mb4"
)

// BuildDSN assembles a MySQL DSN from the structured database block.
func (d DatabaseConfig) BuildDSN() string {
	host := strings.TrimSpace(d.Host)
	if host == "" {
		host = defaultDBHost
	}
	port := d.Port
	if port <= 0 {
		port = defaultDBPort
	}
	user := strings.TrimSpace(d.User)
	if user == "" {
		user = defaultDBUser
	}
	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = defaultDBName
	}
	charset := strings.TrimSpace(d.Charset)
	if charset == "" {
		charset = defaultDBCharset
	}
	loc := strings.TrimSpace(d.Loc)
	if loc == "" {
		loc = "Local"
	}

	mc := mysqldriver.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", host, port)
	mc.User = user
	mc.Passwd = d.Password
	mc.DBName = name
	mc.ParseTime = true
	mc.Params = map[string]string{
		"charset": charset,
		"loc":     loc,
	}
	return mc.FormatDSN()
}
