package services

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/recycleme/backend/internal/models"
)

// ClassTable maps raw detector labels to recycling categories. Both the
// class name and its index (as a string) are accepted, since deployed
// models differ in which one they report.
type ClassTable map[string]models.RecyclingCategory

// DefaultClassTable covers the ten classes the stock model is trained on,
// in training index order.
func DefaultClassTable() ClassTable {
	names := []models.RecyclingCategory{
		models.CategoryPaper,
		models.CategoryPlastic,
		models.CategoryCan,
		models.CategoryVinyl,
		models.CategoryGlass,
		models.CategoryStyrofoam,
		models.CategoryBattery,
		models.CategoryFluorescent,
		models.CategoryBulkyWaste,
		models.CategoryOther,
	}

	table := make(ClassTable, 2*len(names))
	for i, name := range names {
		table[string(name)] = name
		table[strconv.Itoa(i)] = name
	}
	return table
}

// LoadClassTable reads a class-names file (one label per line, training
// index order) for models retrained with a different label set. Labels that
// are not known categories map to CategoryOther.
func LoadClassTable(path string) (ClassTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table := make(ClassTable)
	scanner := bufio.NewScanner(f)
	i := 0
	for scanner.Scan() {
		label := strings.TrimSpace(scanner.Text())
		if label == "" {
			continue
		}
		category, _ := models.ParseCategory(label)
		table[label] = category
		table[strconv.Itoa(i)] = category
		i++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// Resolve maps a raw label to its category; unrecognized labels fall back
// to CategoryOther.
func (t ClassTable) Resolve(label string) (models.RecyclingCategory, bool) {
	if category, ok := t[label]; ok {
		return category, true
	}
	return models.CategoryOther, false
}
