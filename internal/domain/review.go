package domain

import "time"

// Review is a customer rating of a product
type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	UserID    int64     `json:"userId"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	IsHidden  bool      `json:"isHidden"`
	Date      time.Time `json:"date"`
}

// AdminReview is a review joined with the product it belongs to
type AdminReview struct {
	Review
	ProductName  string `json:"productName"`
	ProductImage string `json:"productImage"`
}
