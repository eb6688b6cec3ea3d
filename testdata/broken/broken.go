package main

func {
	return
}
