package model

import "time"

// Product is a catalog entry. OfferPrice, when set, is the discounted selling
// price; Price is the list price.
type Product struct {
	ID         int64
	Name       string
	Category   string
	Price      float64
	OfferPrice *float64
	ImageURL   string
	CreatedAt  time.Time
}

// EffectivePrice returns the price a shopper actually pays: the offer price
// when one is set, the list price otherwise.
func (p Product) EffectivePrice() float64 {
	if p.OfferPrice != nil {
		return *p.OfferPrice
	}
	return p.Price
}
