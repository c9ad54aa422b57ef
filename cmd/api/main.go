package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/wagecore/payroll-backend-go/internal/config"
	appHTTP "github.com/wagecore/payroll-backend-go/internal/handler/http"
	"github.com/wagecore/payroll-backend-go/internal/pkg/cron"
	"github.com/wagecore/payroll-backend-go/internal/pkg/database"
	"github.com/wagecore/payroll-backend-go/internal/pkg/jwt"
	"github.com/wagecore/payroll-backend-go/internal/repository/postgresql"
	assignmentService "github.com/wagecore/payroll-backend-go/internal/service/assignment"
	"github.com/wagecore/payroll-backend-go/internal/service/calculation"
	companyService "github.com/wagecore/payroll-backend-go/internal/service/company"
	payrollService "github.com/wagecore/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	rates, err := calculation.RateTableFromConfig(cfg.Statutory)
	if err != nil {
		log.Fatal("Invalid statutory rate configuration: ", err)
	}
	engine := calculation.NewEngine(assignmentRepo, rates)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	companySvc := companyService.NewCompanyService(companyRepo)
	assignmentSvc := assignmentService.NewAssignmentService(db, assignmentRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(db, payrollRepo, employeeRepo, engine)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	assignmentHandler := appHTTP.NewAssignmentHandler(assignmentSvc)
	companyHandler := appHTTP.NewCompanyHandler(companySvc)

	scheduler := cron.NewScheduler()
	cron.NewPayrollJobs(payrollRepo).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, payrollHandler, assignmentHandler, companyHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
