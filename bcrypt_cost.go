//go:build !race

package userrequests

func passwordHashCost() int {
	return 14
}
