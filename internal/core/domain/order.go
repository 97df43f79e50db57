package domain

import "time"

type Order struct {
	Date  time.Time
	Items []LineItem
}
