package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Food is something that can be logged.
type Food struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Calories float64 `json:"calories"` // per unit
}

// DefaultUnit is used when a food is added without one.
const DefaultUnit = "serving"

// ListFoods returns every food ordered by name.
func (s *Store) ListFoods(ctx context.Context) ([]Food, error) {
	rows, err := s.query(ctx, `SELECT id, name, unit, calories FROM foods ORDER BY name`)
	if err != nil {
		return nil, WrapQueryError("list foods", err)
	}
	defer rows.Close()

	var foods []Food
	for rows.Next() {
		var f Food
		if err := rows.Scan(&f.ID, &f.Name, &f.Unit, &f.Calories); err != nil {
			return nil, WrapQueryError("list foods", err)
		}
		foods = append(foods, f)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapQueryError("list foods", err)
	}
	return foods, nil
}

// AddFood inserts a food and returns it with its id.
func (s *Store) AddFood(ctx context.Context, f Food) (Food, error) {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return Food{}, fmt.Errorf("add food: name is required")
	}
	if f.Unit == "" {
		f.Unit = DefaultUnit
	}

	id, err := s.insert(ctx,
		`INSERT INTO foods (name, unit, calories) VALUES (?, ?, ?)`,
		f.Name, f.Unit, f.Calories)
	if err != nil {
		return Food{}, WrapQueryError("add food", err)
	}
	f.ID = id
	return f, nil
}

// FoodByName finds a food by exact name, ignoring case.
func (s *Store) FoodByName(ctx context.Context, name string) (Food, error) {
	var f Food
	err := s.queryRow(ctx,
		`SELECT id, name, unit, calories FROM foods WHERE LOWER(name) = ?`,
		strings.ToLower(strings.TrimSpace(name)),
	).Scan(&f.ID, &f.Name, &f.Unit, &f.Calories)
	if errors.Is(err, sql.ErrNoRows) {
		return Food{}, ErrNotFound
	}
	if err != nil {
		return Food{}, WrapQueryError("find food", err)
	}
	return f, nil
}

// DefaultFoods is the list SeedFoods starts an empty database with.
var DefaultFoods = []Food{
	{Name: "Apple", Unit: "piece", Calories: 95},
	{Name: "Banana", Unit: "piece", Calories: 105},
	{Name: "Boiled egg", Unit: "piece", Calories: 78},
	{Name: "Brown rice", Unit: "cup", Calories: 216},
	{Name: "Chicken breast", Unit: "100g", Calories: 165},
	{Name: "Coffee", Unit: "cup", Calories: 2},
	{Name: "Greek yogurt", Unit: "cup", Calories: 146},
	{Name: "Oatmeal", Unit: "cup", Calories: 158},
	{Name: "Orange juice", Unit: "cup", Calories: 112},
	{Name: "Peanut butter", Unit: "tbsp", Calories: 94},
	{Name: "Pineapple", Unit: "cup", Calories: 82},
	{Name: "Whole wheat bread", Unit: "slice", Calories: 81},
}

// SeedFoods inserts foods when the table is empty. It reports how many rows
// were added.
func (s *Store) SeedFoods(ctx context.Context, foods []Food) (int, error) {
	var count int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM foods`).Scan(&count); err != nil {
		return 0, WrapQueryError("seed foods", err)
	}
	if count > 0 {
		return 0, nil
	}

	for i, f := range foods {
		if _, err := s.AddFood(ctx, f); err != nil {
			return i, err
		}
	}
	return len(foods), nil
}
