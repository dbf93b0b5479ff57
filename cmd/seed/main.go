// seed populates the database with realistic random machines, users and
// orders (with operations and tasks), or imports machines from a
// shop-floor CSV export. Meant for dev and demo environments.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/bitzerlab/ordertrack/internal/config"
	"github.com/bitzerlab/ordertrack/internal/entity"
	"github.com/bitzerlab/ordertrack/internal/repository"
	"github.com/bitzerlab/ordertrack/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	numMachines int
	numUsers    int
	numOrders   int
	machinesCSV string
)

var firstNames = []string{
	"João", "Miguel", "Sofia", "Ana", "Tiago", "Rui", "Pedro", "Mariana",
	"Carlos", "Inês", "Rita", "Marta", "José", "Bruno", "Beatriz", "André",
}

var lastNames = []string{
	"Silva", "Santos", "Ferreira", "Pereira", "Rodrigues", "Oliveira",
	"Costa", "Gomes", "Martins", "Lopes", "Carvalho", "Almeida",
}

var operationCodes = []string{"0010", "0040", "0110", "0210", "0310", "0410"}

var cncDescriptions = []string{
	"Serra de Corte", "Torno CNC DAEWOO PUMA", "Fresa CNC HELLER PFH",
	"Centro de Processamento MAKINO", "Centro DAEWOO HM-500",
	"Rectificadora GÖCKEL G80", "Brunimento NAGEL VS",
}

var conventionalDescriptions = []string{
	"Operação de Mão-de-obra", "Braço de Roscar Elétrico", "Soldar à Mão",
	"Máquina de Lavagem MTM III", "Rebarbar Peças", "Linha de Montagem",
	"Embalagem Manual", "Pintura a Pó",
}

var processTypes = []entity.ProcessType{
	entity.ProcessPreparation,
	entity.ProcessQualityControl,
	entity.ProcessProcessing,
}

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the order tracking database with demo data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if numMachines == 0 && numUsers == 0 && numOrders == 0 && machinesCSV == "" {
			return fmt.Errorf("nothing to do: provide --machines, --users, --orders and/or --machines-csv")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		if err := db.AutoMigrate(
			&entity.Order{}, &entity.Machine{}, &entity.Operation{},
			&entity.Task{}, &entity.User{},
		); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		if machinesCSV != "" {
			if err := importMachines(db, machinesCSV); err != nil {
				return err
			}
		}
		if numMachines > 0 {
			if err := seedMachines(db, numMachines); err != nil {
				return err
			}
		}
		if numUsers > 0 {
			if err := seedUsers(db, numUsers); err != nil {
				return err
			}
		}
		if numOrders > 0 {
			if err := seedOrders(db, numOrders); err != nil {
				return err
			}
		}
		return nil
	},
}

func importMachines(db *gorm.DB, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	zl, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	svc := service.NewMachineService(repository.NewMachineRepository(db), nil, zl)
	result, err := svc.ImportCSV(context.Background(), file)
	if err != nil {
		return fmt.Errorf("import machines: %w", err)
	}
	fmt.Printf("Machines: imported %d, skipped %d\n", result.Imported, result.Skipped)
	return nil
}

func seedMachines(db *gorm.DB, count int) error {
	var existing []entity.Machine
	if err := db.Find(&existing).Error; err != nil {
		return err
	}
	taken := make(map[string]bool, len(existing))
	for _, m := range existing {
		taken[m.MachineLocation] = true
	}

	inserted := 0
	for i := 0; i < count; i++ {
		machineType := entity.MachineCNC
		description := cncDescriptions[rand.Intn(len(cncDescriptions))]
		if rand.Intn(100) < 30 {
			machineType = entity.MachineConventional
			description = conventionalDescriptions[rand.Intn(len(conventionalDescriptions))]
		}

		location := fmt.Sprintf("%d", 1000+rand.Intn(99000))
		if taken[location] {
			continue
		}
		taken[location] = true

		machine := entity.Machine{
			MachineLocation: location,
			Description:     description,
			MachineID:       fmt.Sprintf("%d", 10000000+rand.Intn(89999999)),
			MachineType:     machineType,
			Active:          true,
		}
		if err := db.Create(&machine).Error; err != nil {
			return fmt.Errorf("create machine: %w", err)
		}
		inserted++
	}
	fmt.Printf("Machines: inserted %d\n", inserted)
	return nil
}

func seedUsers(db *gorm.DB, count int) error {
	var existing []entity.User
	if err := db.Find(&existing).Error; err != nil {
		return err
	}
	takenIDs := make(map[int64]bool)
	takenNames := make(map[string]bool)
	for _, u := range existing {
		if u.BitzerID != nil {
			takenIDs[*u.BitzerID] = true
		}
		takenNames[u.Name] = true
	}

	inserted := 0
	for i := 0; i < count; i++ {
		name := firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
		if takenNames[name] {
			continue
		}
		takenNames[name] = true

		bitzerID := int64(1000 + rand.Intn(9000))
		for takenIDs[bitzerID] {
			bitzerID = int64(1000 + rand.Intn(9000))
		}
		takenIDs[bitzerID] = true

		user := entity.User{Name: name, BitzerID: &bitzerID, Active: true}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		inserted++
	}
	fmt.Printf("Users: inserted %d\n", inserted)
	return nil
}

func seedOrders(db *gorm.DB, count int) error {
	var machines []entity.Machine
	if err := db.Find(&machines).Error; err != nil {
		return err
	}
	var users []entity.User
	if err := db.Find(&users).Error; err != nil {
		return err
	}

	orders, operations, tasks := 0, 0, 0
	for i := 0; i < count; i++ {
		start := entity.DateOf(time.Now().AddDate(0, 0, -rand.Intn(30)))
		end := entity.DateOf(start.AddDate(0, 0, 3+rand.Intn(12)))

		order := entity.Order{
			OrderNumber:    int64(100000 + rand.Intn(100000)),
			MaterialNumber: int64(100000 + rand.Intn(900000)),
			StartDate:      &start,
			EndDate:        &end,
			NumPieces:      int64(5 + rand.Intn(195)),
		}
		if err := db.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		orders++

		for o := 0; o < 1+rand.Intn(4); o++ {
			operation := entity.Operation{
				OrderID:       order.ID,
				OperationCode: operationCodes[rand.Intn(len(operationCodes))],
			}
			if len(machines) > 0 {
				id := machines[rand.Intn(len(machines))].ID
				operation.MachineID = &id
			}
			if err := db.Create(&operation).Error; err != nil {
				// Operation codes repeat across draws; duplicates
				// within one order just get skipped.
				continue
			}
			operations++

			for t := 0; t < 1+rand.Intn(5); t++ {
				day := start.AddDate(0, 0, rand.Intn(1+int(end.Sub(start.Time)/(24*time.Hour))))
				startAt := time.Date(day.Year(), day.Month(), day.Day(),
					6+rand.Intn(12), rand.Intn(60), 0, 0, time.UTC)
				endAt := startAt.Add(time.Duration(15+rand.Intn(165)) * time.Minute)
				good := int64(rand.Intn(51))
				bad := int64(rand.Intn(11))

				task := entity.Task{
					OperationID: operation.ID,
					ProcessType: processTypes[rand.Intn(len(processTypes))],
					StartAt:     &startAt,
					EndAt:       &endAt,
					GoodPieces:  &good,
					BadPieces:   &bad,
				}
				// Most tasks reference a real operator.
				if len(users) > 0 && rand.Intn(100) < 80 {
					operator := users[rand.Intn(len(users))]
					task.OperatorUserID = &operator.ID
					task.OperatorBitzerID = operator.BitzerID
				}
				if err := db.Create(&task).Error; err != nil {
					return fmt.Errorf("create task: %w", err)
				}
				tasks++
			}
		}
	}
	fmt.Printf("Inserted %d orders, %d operations, %d tasks\n", orders, operations, tasks)
	return nil
}

func init() {
	rootCmd.Flags().IntVar(&numMachines, "machines", 0, "create N random machines")
	rootCmd.Flags().IntVar(&numUsers, "users", 0, "create N random users")
	rootCmd.Flags().IntVar(&numOrders, "orders", 0, "create N random orders with operations and tasks")
	rootCmd.Flags().StringVar(&machinesCSV, "machines-csv", "", "import machines from a CSV export")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
