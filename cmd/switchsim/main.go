// Command switchsim replays child-switch and page-drag scenarios headlessly
// and prints what would be painted on every frame.
package main

func main() {
	Execute()
}
