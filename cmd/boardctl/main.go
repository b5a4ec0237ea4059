// boardctl renders the task board in a terminal and drives the create and
// move flows against a running taskboard-api instance.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"taskboard-api/client"
	"taskboard-api/domain"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "task board API address")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	board := client.NewBoard(client.New(*addr))

	var err error
	switch args[0] {
	case "list":
		err = list(ctx, board)
	case "add":
		err = add(ctx, board, args[1:])
	case "move":
		err = move(ctx, board, args[1:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: boardctl [-addr URL] <command>

commands:
  list                          render the board columns
  add <title> [description]    create a task
  move <id> <status> [pos]     move a task to a column (Pending, InProgress, Completed)`)
}

func list(ctx context.Context, board *client.Board) error {
	if err := board.Refresh(ctx); err != nil {
		return err
	}
	for _, col := range board.Columns() {
		fmt.Printf("== %s (%d)\n", col.Status, len(col.Tasks))
		for _, task := range col.Tasks {
			line := fmt.Sprintf("  [%d] %s  %s", task.Position, task.ID, task.Title)
			if len(task.Labels) > 0 {
				names := make([]string, len(task.Labels))
				for i, l := range task.Labels {
					names[i] = l.Name
				}
				line += " {" + strings.Join(names, ",") + "}"
			}
			fmt.Println(line)
		}
	}
	return nil
}

func add(ctx context.Context, board *client.Board, args []string) error {
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	req := client.CreateTask{Title: args[0]}
	if len(args) > 1 {
		req.Description = strings.Join(args[1:], " ")
	}
	task, err := board.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("created %s in %s\n", task.ID, task.Status)
	return nil
}

func move(ctx context.Context, board *client.Board, args []string) error {
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}
	status := domain.Status(args[1])
	if err := domain.ValidateStatus(status); err != nil {
		return err
	}
	position := 0
	if len(args) > 2 {
		p, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid position %q: %w", args[2], err)
		}
		position = p
	}
	if err := board.Refresh(ctx); err != nil {
		return err
	}
	if err := board.Move(ctx, args[0], status, position); err != nil {
		return err
	}
	fmt.Printf("moved %s to %s\n", args[0], status)
	return nil
}
