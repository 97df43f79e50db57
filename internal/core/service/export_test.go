package service

import "time"

func SetStorefrontClock(s *Storefront, now func() time.Time) {
	s.now = now
}
