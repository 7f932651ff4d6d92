package db

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SeedAdminEmail    = "admin@admus.local"
	SeedAdminPassword = "admus-admin"
)

// DropTables drops the named tables, or every table when names is empty.
// Names match table names case-insensitively.
func DropTables(db *gorm.DB, names []string) error {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToLower(strings.TrimSpace(n))] = true
	}

	tables := Tables()
	log.Println("Dropping tables...")
	for i := len(tables) - 1; i >= 0; i-- {
		model := tables[i]
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("parse %T: %w", model, err)
		}
		if len(wanted) > 0 && !wanted[strings.ToLower(stmt.Schema.Table)] {
			continue
		}
		if err := db.Migrator().DropTable(model); err != nil {
			log.Printf("Warning dropping table %s: %v", stmt.Schema.Table, err)
			continue
		}
		log.Printf("Table %s dropped", stmt.Schema.Table)
	}
	return nil
}

func date(t time.Time) datatypes.Date {
	return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

// Seed loads a demo week with a few companies and influencers. It is a no-op
// when any company already exists.
func Seed(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Company{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Database already has companies, skipping seed")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{FullName: "Administrador", Email: SeedAdminEmail, PasswordHash: string(hash), Role: "admin", Active: true}
		if err := tx.Where(models.User{Email: SeedAdminEmail}).FirstOrCreate(&admin).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		monday := now.AddDate(0, 0, -models.DayOf(now).Index())
		week := models.Week{
			Name:      fmt.Sprintf("Semana del %s", monday.Format("02/01")),
			StartDate: date(monday),
			EndDate:   date(monday.AddDate(0, 0, 6)),
		}
		if err := tx.Create(&week).Error; err != nil {
			return err
		}

		companies := []models.Company{
			{Name: "Café Aurora", Address: "Av. Central 120", Location: "Centro"},
			{Name: "Gimnasio Norte", Address: "Calle 8 #45", Location: "Norte"},
			{Name: "Boutique Lila", Address: "Paseo del Parque 3", Location: "Sur"},
		}
		if err := tx.Create(&companies).Error; err != nil {
			return err
		}

		influencers := []models.Influencer{
			{Name: "Valeria Ríos", Email: "valeria@example.com", Platforms: pq.StringArray{"instagram", "tiktok"}},
			{Name: "Mateo Cruz", Platforms: pq.StringArray{"youtube"}},
			{Name: "Lucía Gómez", Platforms: pq.StringArray{"instagram"}},
			{Name: "Diego Salas", Platforms: pq.StringArray{"tiktok"}},
		}
		if err := tx.Create(&influencers).Error; err != nil {
			return err
		}

		var rows []models.Availability
		add := func(ownerType models.OwnerType, id uint, day models.Day, shift models.Shift) {
			rows = append(rows, models.Availability{OwnerType: ownerType, OwnerID: id, Day: day, Shift: shift})
		}
		add(models.OwnerCompany, companies[0].ID, models.Monday, models.Morning)
		add(models.OwnerCompany, companies[0].ID, models.Wednesday, models.Afternoon)
		add(models.OwnerCompany, companies[1].ID, models.Tuesday, models.Morning)
		add(models.OwnerCompany, companies[1].ID, models.Thursday, models.Afternoon)
		add(models.OwnerCompany, companies[2].ID, models.Friday, models.Morning)
		for i, inf := range influencers {
			add(models.OwnerInfluencer, inf.ID, models.Days[i%5], models.Morning)
			add(models.OwnerInfluencer, inf.ID, models.Wednesday, models.Afternoon)
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		taskType := models.TaskType{Name: "Grabación", Color: "#1976d2"}
		if err := tx.Create(&taskType).Error; err != nil {
			return err
		}
		tasks := []models.Task{
			{CompanyID: companies[0].ID, TaskTypeID: &taskType.ID, Title: "Reel de apertura", Priority: models.PriorityHigh, Date: date(monday)},
			{CompanyID: companies[1].ID, TaskTypeID: &taskType.ID, Title: "Historias de clase", Priority: models.PriorityMedium, Date: date(monday.AddDate(0, 0, 1))},
		}
		if err := tx.Create(&tasks).Error; err != nil {
			return err
		}

		packages := []models.Package{
			{CompanyID: companies[0].ID, Name: "Básico", Price: 300, Reels: 2, Posts: 3, Stories: 5},
			{CompanyID: companies[1].ID, Name: "Premium", Price: 800, Reels: 4, Posts: 4, Stories: 10, Videos: 1},
		}
		if err := tx.Create(&packages).Error; err != nil {
			return err
		}

		link := models.CompanyLink{
			CompanyID: companies[0].ID,
			Concept:   "Paquete básico",
			URL:       "https://pagos.example.com/l/aurora",
			Amount:    300,
			Month:     monday.Format("2006-01"),
			Status:    models.LinkPending,
		}
		return tx.Create(&link).Error
	})
}
