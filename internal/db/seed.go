package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultTags is the administrative tag catalog. Tags are only ever created
// here; the bot flow just toggles membership.
var DefaultTags = []string{
	"Backend",
	"Frontend",
	"Mobile",
	"Machine Learning",
	"Data Engineering",
	"DevOps",
	"GameDev",
	"Security",
	"UI/UX",
	"Robotics",
}

// SeedTags inserts the default tag catalog if the tag table is empty.
// Idempotent across restarts.
func SeedTags(database *gorm.DB) error {
	var count int64
	if err := database.Model(&Tag{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count tags: %w", err)
	}
	if count > 0 {
		return nil
	}

	tags := make([]Tag, 0, len(DefaultTags))
	for _, title := range DefaultTags {
		tags = append(tags, Tag{Title: title})
	}
	if err := database.Create(&tags).Error; err != nil {
		return fmt.Errorf("failed to seed tags: %w", err)
	}
	log.Printf("Seeded %d tags.", len(tags))
	return nil
}

// SeedTestData resets the database and populates it with demo accounts,
// tag selections and likes.
//
// Behavior:
//  1. Clears existing rows in likes, account_tags and accounts.
//  2. Ensures the tag catalog exists.
//  3. Creates 10 students and 10 mentors with random tag sets.
//  4. Generates likes in both directions with ~30% reciprocation.
func SeedTestData(database *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, table := range []string{"likes", "account_tags", "accounts"} {
		if err := database.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	if err := SeedTags(database); err != nil {
		return err
	}

	var tags []Tag
	if err := database.Find(&tags).Error; err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}

	var students, mentors []Account
	for i := 1; i <= 20; i++ {
		role := RoleStudent
		if i > 10 {
			role = RoleMentor
		}
		account := Account{
			ChatID:   int64(100000 + i),
			Handle:   fmt.Sprintf("user%d", i),
			Role:     role,
			IsActive: true,
			FullName: fmt.Sprintf("Demo User %d", i),
		}
		if err := database.Create(&account).Error; err != nil {
			return fmt.Errorf("failed to seed account: %w", err)
		}

		// each account picks 2-4 random tags
		picked := map[uint]bool{}
		for n := 2 + r.Intn(3); n > 0; n-- {
			tag := tags[r.Intn(len(tags))]
			if picked[tag.ID] {
				continue
			}
			picked[tag.ID] = true
			at := AccountTag{AccountID: account.ID, TagID: tag.ID}
			if err := database.Clauses(clause.OnConflict{DoNothing: true}).Create(&at).Error; err != nil {
				return fmt.Errorf("failed to seed account tag: %w", err)
			}
		}

		if role == RoleStudent {
			students = append(students, account)
		} else {
			mentors = append(mentors, account)
		}
	}
	log.Println("Seeded 20 accounts.")

	// students like random mentors; ~30% of those get liked back
	likes := 0
	for _, s := range students {
		for j := 0; j < 3; j++ {
			m := mentors[r.Intn(len(mentors))]
			like := Like{LikerID: s.ID, LikedID: m.ID}
			if err := database.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}
			likes++
			if r.Intn(100) < 30 {
				back := Like{LikerID: m.ID, LikedID: s.ID}
				if err := database.Clauses(clause.OnConflict{DoNothing: true}).Create(&back).Error; err != nil {
					return fmt.Errorf("failed to seed reciprocal like: %w", err)
				}
				likes++
			}
		}
	}
	log.Printf("Seeded %d likes.", likes)

	return nil
}
