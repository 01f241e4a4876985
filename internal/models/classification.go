package models

import (
	"time"
)

// RecyclingCategory is the closed set of waste categories the detector can
// report. Group membership (recyclable vs. special disposal) is fixed
// policy, not data.
type RecyclingCategory string

const (
	CategoryPaper     RecyclingCategory = "paper"
	CategoryPlastic   RecyclingCategory = "plastic"
	CategoryCan       RecyclingCategory = "can"
	CategoryVinyl     RecyclingCategory = "vinyl"
	CategoryGlass     RecyclingCategory = "glass"
	CategoryStyrofoam RecyclingCategory = "styrofoam"

	CategoryBattery     RecyclingCategory = "battery"
	CategoryFluorescent RecyclingCategory = "fluorescent"
	CategoryBulkyWaste  RecyclingCategory = "bulky_waste"

	CategoryOther RecyclingCategory = "other"
)

// RecyclableCategories are immediately creditable with points.
func RecyclableCategories() []RecyclingCategory {
	return []RecyclingCategory{
		CategoryPaper,
		CategoryPlastic,
		CategoryCan,
		CategoryVinyl,
		CategoryGlass,
		CategoryStyrofoam,
	}
}

// SpecialDisposalCategories require out-of-band handling and earn nothing.
func SpecialDisposalCategories() []RecyclingCategory {
	return []RecyclingCategory{
		CategoryBattery,
		CategoryFluorescent,
		CategoryBulkyWaste,
	}
}

func (c RecyclingCategory) Recyclable() bool {
	switch c {
	case CategoryPaper, CategoryPlastic, CategoryCan, CategoryVinyl, CategoryGlass, CategoryStyrofoam:
		return true
	}
	return false
}

func (c RecyclingCategory) SpecialDisposal() bool {
	switch c {
	case CategoryBattery, CategoryFluorescent, CategoryBulkyWaste:
		return true
	}
	return false
}

// ParseCategory maps a raw detector label to a category. Unknown labels
// collapse to CategoryOther; ok reports whether the label was recognized.
func ParseCategory(label string) (RecyclingCategory, bool) {
	switch RecyclingCategory(label) {
	case CategoryPaper, CategoryPlastic, CategoryCan, CategoryVinyl, CategoryGlass,
		CategoryStyrofoam, CategoryBattery, CategoryFluorescent, CategoryBulkyWaste, CategoryOther:
		return RecyclingCategory(label), true
	}
	return CategoryOther, false
}

type DetectionBox struct {
	X1 float64 `firestore:"x1" json:"x1"`
	Y1 float64 `firestore:"y1" json:"y1"`
	X2 float64 `firestore:"x2" json:"x2"`
	Y2 float64 `firestore:"y2" json:"y2"`
}

type Detection struct {
	Category   RecyclingCategory `firestore:"category" json:"category"`
	Confidence float64           `firestore:"confidence" json:"confidence"`
	Box        DetectionBox      `firestore:"box" json:"box"`
}

// ClassificationResult is one image's full detection outcome. It is created
// once per classification call and never mutated afterwards.
type ClassificationResult struct {
	ImageID    string      `firestore:"imageId" json:"imageId"`
	Detections []Detection `firestore:"detections" json:"detections"`
	CreatedAt  time.Time   `firestore:"createdAt" json:"createdAt"`
}

func (r *ClassificationResult) RecyclableCount() int {
	count := 0
	for _, d := range r.Detections {
		if d.Category.Recyclable() {
			count++
		}
	}
	return count
}

func (r *ClassificationResult) HasBattery() bool {
	return r.hasCategory(CategoryBattery)
}

func (r *ClassificationResult) HasBulkyWaste() bool {
	return r.hasCategory(CategoryBulkyWaste)
}

func (r *ClassificationResult) HasOther() bool {
	return r.hasCategory(CategoryOther)
}

func (r *ClassificationResult) hasCategory(c RecyclingCategory) bool {
	for _, d := range r.Detections {
		if d.Category == c {
			return true
		}
	}
	return false
}
