package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pubule/capacity-planner/calendar"
)

var (
	workdaysMonth   int
	workdaysYear    int
	workdaysCountry string
)

var workdaysCmd = &cobra.Command{
	Use:   "workdays",
	Short: "Print the working days of a month for a country",
	Example: `  planner workdays --month 1 --year 2024 --country IT
  planner workdays -m 5 -y 2025 --country RO`,
	RunE: runWorkdays,
}

func init() {
	workdaysCmd.Flags().IntVarP(&workdaysMonth, "month", "m", 0, "month (1-12)")
	workdaysCmd.Flags().IntVarP(&workdaysYear, "year", "y", 0, "year (2020-2030)")
	workdaysCmd.Flags().StringVar(&workdaysCountry, "country", "IT", "country code (IT, RO)")
	_ = workdaysCmd.MarkFlagRequired("month")
	_ = workdaysCmd.MarkFlagRequired("year")
}

func runWorkdays(cmd *cobra.Command, args []string) error {
	calc := calendar.NewCalculator()
	days, err := calc.CalculateWorkingDays(workdaysMonth, workdaysYear, calendar.Country(workdaysCountry))
	if err != nil {
		return err
	}
	fmt.Printf("%04d-%02d %s: %d working days\n", workdaysYear, workdaysMonth, workdaysCountry, days)
	return nil
}
