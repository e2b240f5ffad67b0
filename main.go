/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/RoshaThankachan/EcoWaste/cmd"

func main() {
	cmd.Execute()
}
