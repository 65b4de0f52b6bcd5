package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"djstudio/internal/database"
	"djstudio/internal/domain"
	"djstudio/internal/modules/booking"
	"djstudio/internal/modules/notify"
	"djstudio/internal/modules/wallet"
	"djstudio/internal/repository"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "studio.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	walletService := wallet.NewService(db)

	log.Println("Running migrations...")
	if err := userRepo.Migrate(); err != nil {
		log.Fatal("migrate users:", err)
	}
	if err := bookingRepo.Migrate(); err != nil {
		log.Fatal("migrate bookings:", err)
	}
	if err := walletService.Migrate(); err != nil {
		log.Fatal("migrate wallets:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM credit_transactions")
	db.Exec("DELETE FROM credit_wallets")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM users")

	ctx := context.Background()

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@djstudio.id",
		PasswordHash: string(adminHash),
		Name:         "Studio Admin",
		Role:         domain.RoleAdmin,
	}
	if err := userRepo.Create(ctx, &admin); err != nil {
		log.Fatal("create admin:", err)
	}
	log.Println("Admin created: admin@djstudio.id / admin123")

	clients := []domain.User{}
	clientEmails := []string{"raka@gmail.com", "sinta@gmail.com", "bayu@yahoo.com"}
	for i, email := range clientEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
		client := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Name:         fmt.Sprintf("Client %d", i+1),
			Role:         domain.RoleClient,
		}
		if err := userRepo.Create(ctx, &client); err != nil {
			log.Fatal("create client:", err)
		}
		clients = append(clients, client)
	}

	// ================== WALLETS ==================
	log.Println("Topping up wallets...")
	for _, c := range clients {
		if _, _, err := walletService.Add(ctx, c.ID, 1200000); err != nil {
			log.Fatal("top up wallet:", err)
		}
	}

	// ================== BOOKINGS ==================
	log.Println("Creating bookings...")
	bookingService := booking.NewService(bookingRepo, walletService, notify.NewHub())

	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	seedBookings := []struct {
		user    domain.User
		time    string
		hours   int
		payment domain.PaymentMethod
	}{
		{clients[0], "10:00", 2, domain.PaymentMethodCash},
		{clients[1], "12:00", 3, domain.PaymentMethodCredits},
		{clients[2], "15:00", 2, domain.PaymentMethodCash},
	}
	for _, sb := range seedBookings {
		b, err := bookingService.Submit(ctx, sb.user.ID, booking.SubmitBookingRequest{
			Date:          date,
			Time:          sb.time,
			DurationHours: sb.hours,
			TimeZone:      "Asia/Jakarta",
			Equipment: []booking.EquipmentSelection{
				{ID: 1}, // Pioneer CDJ-3000
				{ID: 4}, // DJM A9
			},
			PaymentMethod: sb.payment,
		})
		if err != nil {
			log.Fatal("seed booking:", err)
		}
		log.Printf("Booking %d: %s %s for %s", b.ID, date, sb.time, sb.user.Email)
	}

	log.Println("Seed complete.")
}
