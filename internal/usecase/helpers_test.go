package usecase_test

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/domain"
)

var (
	cfo        = domain.Actor{UserID: "u-1", FullName: "Nguyễn Văn A", Role: domain.RoleCFO}
	accountant = domain.Actor{UserID: "u-2", FullName: "Trần Thị B", Role: domain.RoleAccountant}
	manager    = domain.Actor{UserID: "u-3", FullName: "Lê Văn C", Role: domain.RoleManager}

	nop = zerolog.Nop()
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 15, 9, 30, 0, 0, time.UTC)
}
