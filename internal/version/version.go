// Package version отдаёт сведения о сборке, заполняемые через -ldflags:
//
//	-X github.com/bistrosoft/orders/internal/version.version=v1.2.3
//	-X github.com/bistrosoft/orders/internal/version.commit=abc1234
//	-X github.com/bistrosoft/orders/internal/version.date=2026-01-02
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

// Version возвращает версию сборки.
func Version() string { return version }

// String возвращает сведения о сборке одной строкой для логов.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
