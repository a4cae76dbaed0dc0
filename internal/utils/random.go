package utils

import (
	"fmt"
	"math/rand"

	"github.com/TedCarlson/insight-sub002/internal/domain"
)

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
	"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Karen", "Carlos", "Maria",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
	"Thomas", "Taylor", "Moore", "Jackson", "Martin",
}

func GenerateRandomDisplayName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

var positionLabels = []string{
	"Route Technician", "Service Technician", "Technician II", "Field Supervisor", "Area Supervisor",
}

func GenerateRandomPositionLabel() string {
	return positionLabels[rand.Intn(len(positionLabels))]
}

func GenerateRandomTechCode() string {
	return fmt.Sprintf("T%05d", rand.Intn(100000))
}

// GenerateRandomWeekFlags 随机点亮若干天，保证至少一天为 on
func GenerateRandomWeekFlags() domain.WeekFlags {
	var flags domain.WeekFlags
	for i := range flags {
		flags[i] = rand.Intn(2) == 1
	}
	flags[rand.Intn(7)] = true
	return flags
}
