package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"taskManager/internal/apperr"
	"taskManager/internal/models/task"
	"taskManager/internal/transfer"
)

// Service is what the menu needs from the task service.
type Service interface {
	HealthCheck(ctx context.Context) error
	AddTask(ctx context.Context, t task.Task) (int64, error)
	ListAll(ctx context.Context) []task.Task
	Upcoming(ctx context.Context, days int) []task.Task
}

type Transfer interface {
	Path() string
	Export(ctx context.Context) (int, error)
	Import(ctx context.Context) (transfer.Result, error)
}

type Menu struct {
	svc          Service
	transfer     Transfer
	upcomingDays int
	in           *bufio.Scanner
	out          io.Writer
}

func NewMenu(svc Service, tr Transfer, upcomingDays int, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		svc:          svc,
		transfer:     tr,
		upcomingDays: upcomingDays,
		in:           bufio.NewScanner(in),
		out:          out,
	}
}

const rule = "=============================="

func (m *Menu) display() {
	m.printf("\n%s\n", rule)
	m.printf("      Menú del Gestor de Tareas\n")
	m.printf("%s\n", rule)
	m.printf("1. Añadir Nueva Tarea\n")
	m.printf("2. Ver Todas las Tareas\n")
	m.printf("3. Ver Tareas Próximas (Próximos %d Días)\n", m.upcomingDays)
	m.printf("4. Exportar Tareas a JSON\n")
	m.printf("5. Importar Tareas desde JSON\n")
	m.printf("6. Salir\n")
	m.printf("%s\n", rule)
}

// Run loops until the user picks exit, input ends, or ctx is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.display()
		choice, ok := m.prompt("Introduce tu opción: ")
		if !ok {
			m.printf("\nSaliendo del Gestor de Tareas. ¡Adiós!\n")
			return m.in.Err()
		}

		switch strings.TrimSpace(choice) {
		case "1":
			m.guarded(ctx, m.AddTask)
		case "2":
			m.guarded(ctx, m.ViewAll)
		case "3":
			m.guarded(ctx, m.ViewUpcoming)
		case "4":
			m.guarded(ctx, m.Export)
		case "5":
			m.guarded(ctx, m.Import)
		case "6":
			m.printf("Saliendo del Gestor de Tareas. ¡Adiós!\n")
			return nil
		default:
			m.printf("Opción inválida. Por favor, introduce un número entre 1 y 6.\n")
		}
	}
}

// guarded checks the connection first so an empty listing is never mistaken for an outage.
func (m *Menu) guarded(ctx context.Context, action func(context.Context)) {
	if err := m.svc.HealthCheck(ctx); err != nil {
		m.printf("Advertencia: No hay una conexión activa a la base de datos (%v). Reinicia la aplicación o verifica tu configuración.\n", err)
		return
	}
	action(ctx)
}

func (m *Menu) AddTask(ctx context.Context) {
	m.printf("\n--- Añadir Nueva Tarea ---\n")

	title, ok := m.prompt("Introduce el título de la tarea: ")
	if !ok {
		return
	}
	description, ok := m.prompt("Introduce la descripción de la tarea: ")
	if !ok {
		return
	}
	status, ok := m.prompt(fmt.Sprintf("Introduce el estado de la tarea (%s) [%s]: ", statusList(), task.DefaultStatus))
	if !ok {
		return
	}
	due, ok := m.prompt("Introduce la fecha de vencimiento (AAAA-MM-DD): ")
	if !ok {
		return
	}

	tk, err := task.Parse(title, description, strings.TrimSpace(status), strings.TrimSpace(due))
	if err != nil {
		m.printf("Error al crear la tarea: %v\n", err)
		return
	}

	id, err := m.svc.AddTask(ctx, tk)
	if err != nil {
		m.printf("Error al insertar la tarea: %v\n", err)
		return
	}
	m.printf("Tarea '%s' insertada exitosamente con ID: %d\n", tk.Title, id)
}

func (m *Menu) ViewAll(ctx context.Context) {
	m.printf("\n--- Todas las Tareas ---\n")

	tasks := m.svc.ListAll(ctx)
	if len(tasks) == 0 {
		m.printf("No se encontraron tareas en la base de datos.\n")
		return
	}
	m.printTasks(tasks)
}

func (m *Menu) ViewUpcoming(ctx context.Context) {
	m.printf("\n--- Tareas Próximas (Próximos %d Días) ---\n", m.upcomingDays)

	tasks := m.svc.Upcoming(ctx, m.upcomingDays)
	if len(tasks) == 0 {
		m.printf("No se encontraron tareas próximas para los siguientes %d días.\n", m.upcomingDays)
		return
	}
	m.printTasks(tasks)
}

func (m *Menu) Export(ctx context.Context) {
	m.printf("\n--- Exportando Tareas a JSON ---\n")

	n, err := m.transfer.Export(ctx)
	if err != nil {
		m.printf("Error al exportar tareas al archivo JSON: %v\n", err)
		return
	}
	if n == 0 {
		m.printf("No se encontraron tareas en la base de datos para exportar.\n")
		return
	}
	m.printf("Todas las %d tareas se exportaron exitosamente a '%s'.\n", n, m.transfer.Path())
}

func (m *Menu) Import(ctx context.Context) {
	m.printf("\n--- Importando Tareas desde JSON ---\n")

	res, err := m.transfer.Import(ctx)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		m.printf("Error: El archivo '%s' no fue encontrado.\n", m.transfer.Path())
		return
	case errors.Is(err, apperr.ErrFormat):
		m.printf("Error al decodificar JSON desde '%s': %v\n", m.transfer.Path(), err)
		return
	case err != nil:
		m.printf("Error al leer '%s': %v\n", m.transfer.Path(), err)
		return
	}

	if res.Total == 0 {
		m.printf("No se encontraron tareas dentro de '%s' para importar.\n", m.transfer.Path())
		return
	}
	for _, d := range res.Skipped {
		m.printf("Saltando datos de tarea inválidos: %s\n", d)
	}
	for _, d := range res.Failed {
		m.printf("No se pudo insertar la tarea: %s\n", d)
	}
	m.printf("Se importaron %d de %d tareas exitosamente.\n", res.Imported, res.Total)
}

func (m *Menu) printTasks(tasks []task.Task) {
	for _, t := range tasks {
		m.printf("ID: %d\n", t.ID)
		m.printf("  Título: %s\n", t.Title)
		m.printf("  Descripción: %s\n", t.Description)
		m.printf("  Estado: %s\n", t.Status)
		m.printf("  Fecha de Vencimiento: %s\n\n", task.FormatDate(t.DueDate))
	}
}

func (m *Menu) prompt(label string) (string, bool) {
	m.printf("%s", label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimRight(m.in.Text(), "\r"), true
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func statusList() string {
	names := make([]string, 0, 3)
	for _, s := range task.Statuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
