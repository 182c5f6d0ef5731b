package domain

type Category struct {
	Model
	Name string `db:"name"`
}
