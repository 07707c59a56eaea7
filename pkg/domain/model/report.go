package model

import "time"

type SalesRecord struct {
	SerialNo     int     `json:"sNo"`
	CustomerName string  `json:"customerName"`
	ItemNo       string  `json:"itemNo"`
	AmountCents  int64   `json:"amountCents"`
	Country      Country `json:"country"`
}

type SalesReport struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Records     []SalesRecord `json:"records"`
}

func (r SalesReport) TotalCents() int64 {
	var total int64
	for _, rec := range r.Records {
		total += rec.AmountCents
	}
	return total
}
