// Package main запускает утилиту управления клиентской базой.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clientbase/internal/config"
	"clientbase/internal/importer"
	"clientbase/internal/storage"
	"clientbase/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Инициализация логгера
	log := logger.New()
	defer func() {
		_ = log.Sync()
	}()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Создание контекста
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received")
		cancel()
	}()

	// Подключение к базе данных
	pg, err := storage.NewPostgres(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := pg.Close(); err != nil {
			log.Warn("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := pg.CreateSchema(ctx); err != nil {
		log.Fatal("Failed to create schema", zap.Error(err))
	}

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "import":
		if len(args) < 2 {
			usage()
			os.Exit(2)
		}
		imp := importer.New(pg.GetDB(), log)
		if err := imp.ImportFile(ctx, args[1]); err != nil {
			log.Fatal("Import failed", zap.Error(err))
		}

	case "report":
		if len(args) < 2 {
			usage()
			os.Exit(2)
		}
		if err := printPublisherReport(pg, args[1]); err != nil {
			log.Fatal("Report failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", args[0]))
		usage()
		os.Exit(2)
	}
}

// printPublisherReport печатает продажи книг издателя
func printPublisherReport(pg *storage.Postgres, ref string) error {
	repo := pg.GetBookstoreRepository()

	publisher, err := repo.PublisherByNameOrID(ref)
	if err != nil {
		return err
	}

	sales, err := repo.SalesByPublisher(publisher.ID)
	if err != nil {
		return err
	}

	for _, sale := range sales {
		fmt.Printf("%s | %s | %v | %s\n",
			sale.Title, sale.Shop, sale.Price, sale.DateSale.Format("02.01.2006"))
	}

	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  clientbase import <records.json>")
	fmt.Fprintln(os.Stderr, "  clientbase report <publisher-name-or-id>")
}
