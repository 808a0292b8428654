package main

import (
	"fmt"
	"os"
	"strings"

	"storygeo/internal/models"
)

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
}

func printAdventure(adv *models.Adventure) {
	fmt.Printf("%s  %s\n", adv.ID, adv.Title)
	if place := strings.Trim(adv.Location+", "+adv.Era, ", "); place != "" {
		fmt.Printf("    %s\n", place)
	}
	if adv.Summary != "" {
		fmt.Printf("    %s\n", adv.Summary)
	}
}
