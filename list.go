// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"
	"log"

	"github.com/playbymail/lslopt/internal/runners"
	"github.com/spf13/cobra"
)

var cmdList = &cobra.Command{
	Use:   "list path",
	Short: "list the .lsl files under a directory",
	Long:  `List every .lsl source file under path, one per line.`,
	Run: func(cmd *cobra.Command, args []string) {
		path := "."
		if len(args) == 1 {
			path = args[0]
		} else if len(args) > 1 {
			log.Fatalf("error: expected at most one path argument\n")
		}

		files, err := runners.CollectSources(path)
		if err != nil {
			log.Fatalf("error: %v\n", err)
		}
		for _, f := range files {
			fmt.Println(f)
		}
	},
}
