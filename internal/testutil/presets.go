package testutil

import "github.com/zjrosen/wildo/internal/content"

// Standard builds the dataset most UI and store tests use: two lists, one
// with a done, an ignored and an overdue item.
func Standard() *content.Context {
	return NewBuilder("home").
		WithList("groceries",
			Item("milk"),
			Item("eggs", Done()),
			Item("bread", Ignored()),
			Item("rent", Due(1, 1, 2020)),
		).
		WithList("chores", Item("dishes")).
		Build()
}
