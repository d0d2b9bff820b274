//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

import (
	"fmt"
	"net/url"
)

type PostgresLogin struct {
	Host   string `koanf:"host" yaml:"host"`
	Port   int    `koanf:"port" yaml:"port"`
	User   string `koanf:"user" yaml:"user"`
	Pass   string `koanf:"pass" yaml:"pass"`
	DBName string `koanf:"dbname" yaml:"dbname"`
}

// DSN - connection string for pgxpool
func (pl PostgresLogin) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(pl.User, pl.Pass),
		Host:   fmt.Sprintf("%s:%d", pl.Host, pl.Port),
		Path:   pl.DBName,
	}
	return u.String()
}
