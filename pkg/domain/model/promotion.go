package model

import (
	"errors"
	"fmt"
)

var ErrNoPromotion = errors.New("no promotion for country")

type Promotion struct {
	Country  Country `json:"country"`
	Name     string  `json:"name"`
	Code     string  `json:"code"`
	Discount string  `json:"discount"`
}

func (p Promotion) Banner() string {
	return fmt.Sprintf("[%s EXCLUSIVE] %s: Use Code %s for %s", p.Country, p.Name, p.Code, p.Discount)
}

var holidayPromotions = map[Country]Promotion{
	US: {Country: US, Name: "Thanksgiving Weekend", Code: "GOBBLE25", Discount: "25% off"},
	UK: {Country: UK, Name: "Boxing Day", Code: "BOXING20", Discount: "20% off"},
	AU: {Country: AU, Name: "Summer Sale", Code: "SUNNY15", Discount: "15% off"},
	NZ: {Country: NZ, Name: "Waitangi Day", Code: "KIWI15", Discount: "15% off"},
	DE: {Country: DE, Name: "Oktoberfest", Code: "PROST20", Discount: "20% off"},
	IT: {Country: IT, Name: "Ferragosto", Code: "ESTATE20", Discount: "20% off"},
	FR: {Country: FR, Name: "Bastille Day", Code: "LIBERTE14", Discount: "14% off"},
	CA: {Country: CA, Name: "Canada Day", Code: "MAPLE20", Discount: "20% off"},
	JP: {Country: JP, Name: "Golden Week", Code: "GOLDEN10", Discount: "10% off"},
	IN: {Country: IN, Name: "Diwali", Code: "DIWALI30", Discount: "30% off"},
}

func PromotionFor(country Country) (Promotion, error) {
	p, ok := holidayPromotions[country]
	if !ok {
		return Promotion{}, ErrNoPromotion
	}
	return p, nil
}
