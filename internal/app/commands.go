package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/olmosO/doggys/internal/api"
	"github.com/olmosO/doggys/internal/domain"
	"github.com/olmosO/doggys/internal/report"
	"github.com/olmosO/doggys/pkg/logger"
	"github.com/olmosO/doggys/pkg/validator"
)

const helpText = `Comandos:
  productos                  listar el catálogo
  agregar <id>               agregar un producto al carrito
  carrito                    ver el carrito
  cantidad <n> <+/-delta>    cambiar la cantidad de la línea n
  quitar <n>                 eliminar la línea n (pide confirmación)
  comprar                    finalizar la compra
  boleta                     emitir la boleta del último pedido
  boletas                    listar boletas emitidas (admin)
  pedidos                    listar mis pedidos
  cancelar <id>              cancelar un pedido pendiente o pagado
  seguir [id]                seguir el estado de un pedido
  parar                      dejar de seguir
  registro                   crear una cuenta
  login <email>              iniciar sesión
  logout                     cerrar sesión
  perfil                     ver y editar mi perfil
  reporte [tipo desde hasta] reporte de ventas (admin)
  catalogo                   administrar productos (admin)
  ayuda                      esta ayuda
  salir                      terminar`

// commandLoop reads commands until EOF, "salir", or context cancellation.
// Every command resets the inactivity watchdog and gets its own request id.
func (a *App) commandLoop(ctx context.Context) {
	a.terminal.Notify("Bienvenido a Doggy's. Escriba 'ayuda' para ver los comandos.")

	for {
		fmt.Fprint(a.out, "> ")
		line, err := a.terminal.ReadLine()
		if err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		a.watchdog.Touch()
		cmdCtx := logger.WithRequestID(ctx, uuid.New().String())

		if !a.dispatch(cmdCtx, fields[0], fields[1:]) {
			return
		}
	}
}

// dispatch runs one command. Returns false when the loop should end.
func (a *App) dispatch(ctx context.Context, cmd string, args []string) bool {
	switch cmd {
	case "salir", "exit", "quit":
		return false
	case "ayuda", "help":
		a.terminal.Notify(helpText)
	case "productos":
		a.cmdProducts(ctx)
	case "agregar":
		a.cmdAdd(ctx, args)
	case "carrito":
		a.cart.Render()
	case "cantidad":
		a.cmdQuantity(ctx, args)
	case "quitar":
		a.cmdRemove(ctx, args)
	case "comprar":
		a.cmdCheckout(ctx)
	case "boleta":
		a.cmdReceipt(ctx)
	case "boletas":
		a.cmdReceipts(ctx)
	case "pedidos":
		a.cmdOrders(ctx)
	case "cancelar":
		a.cmdCancel(ctx, args)
	case "seguir":
		a.cmdFollow(ctx, args)
	case "parar":
		a.poller.Stop()
	case "registro":
		a.cmdRegister(ctx)
	case "login":
		a.cmdLogin(ctx, args)
	case "logout":
		a.cmdLogout(ctx)
	case "perfil":
		a.cmdProfile(ctx)
	case "reporte":
		a.cmdReport(ctx, args)
	case "catalogo":
		a.cmdCatalog(ctx, args)
	default:
		a.terminal.ShowError(fmt.Sprintf("comando desconocido: %s", cmd))
	}
	return true
}

func (a *App) cmdProducts(ctx context.Context) {
	products, err := a.backend.ListProducts(ctx)
	if err != nil {
		a.terminal.ShowError(err.Error())
		return
	}

	for _, p := range products {
		if !p.Available {
			continue
		}
		a.terminal.Notify(fmt.Sprintf("[%d] %s - $%d", p.ID, p.Name, p.Price))
	}
}

func (a *App) cmdAdd(ctx context.Context, args []string) {
	id, ok := a.parseID(args, "agregar <id>")
	if !ok {
		return
	}

	product, err := a.backend.GetProduct(ctx, id)
	if err != nil {
		a.terminal.ShowError(err.Error())
		return
	}
	if !product.Available {
		a.terminal.ShowError(fmt.Sprintf("%s no está disponible", product.Name))
		return
	}

	if err := a.cart.AddItem(ctx, *product, true); err != nil {
		a.terminal.ShowError(err.Error())
	}
}

func (a *App) cmdQuantity(ctx context.Context, args []string) {
	if len(args) != 2 {
		a.terminal.ShowError("uso: cantidad <n> <+/-delta>")
		return
	}

	index, err1 := strconv.Atoi(args[0])
	delta, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		a.terminal.ShowError("uso: cantidad <n> <+/-delta>")
		return
	}

	// Lines are shown 1-based.
	if err := a.cart.ChangeQuantity(ctx, index-1, delta); err != nil {
		a.terminal.ShowError(err.Error())
	}
}

func (a *App) cmdRemove(ctx context.Context, args []string) {
	index, ok := a.parseID(args, "quitar <n>")
	if !ok {
		return
	}

	if err := a.cart.RemoveItem(ctx, int(index)-1); err != nil {
		a.terminal.ShowError(err.Error())
	}
}

func (a *App) cmdCheckout(ctx context.Context) {
	order, err := a.checkout.Checkout(ctx)
	if err != nil {
		a.terminal.ShowError(err.Error())
		return
	}

	a.terminal.Notify(fmt.Sprintf("Pedido %d pagado. Total: $%d", order.ID, order.Total))
	a.poller.Start(ctx, order.ID)
}

func (a *App) cmdReceipt(ctx context.Context) {
	orderID, err := a.checkout.LastOrderID(ctx)
	if err != nil {
		a.terminal.ShowError("no hay un pedido reciente")
		return
	}

	receipt, err := a.checkout.Receipt(ctx, orderID)
	if err != nil {
		a.terminal.ShowError(err.Error())
		return
	}

	a.terminal.Notify(fmt.Sprintf("Boleta %d emitida para el pedido %d. Total: $%d",
		receipt.ID, receipt.OrderID, receipt.Total))
}

func (a *App) cmdReceipts(ctx context.Context) {
	receipts, err := a.console.ListReceipts(ctx)
	if err != nil {
		a.terminal.ShowError(err.Error())
		return
	}

	if len(receipts) == 0 {
		a.terminal.Notify("No hay boletas emitidas.")
		return
	}
	for _, r := range receipts {
		a.terminal.Notify(fmt.Sprintf("Boleta %d - pedido %d - $%d - %s",
			r.ID, r.OrderID, r.Total, r.IssuedAt.Format("2006-01-02")))
	}
}

func (a *App) cmdCancel(ctx context.Context, args []string) {
	id, ok := a.parseID(args, "cancelar <id>")
	if !ok {
		return
	}

	if !a.terminal.Confirm(fmt.Sprintf("¿Cancelar el pedido %d?", id)) {
		return
	}

	if err := a.checkout.Cancel(ctx, id); err != nil {
		a.terminal.ShowError(err.Error())
		return
	}
	a.terminal.Notify(fmt.Sprintf("Pedido %d cancelado.", id))
}

func (a *App) cmdOrders(ctx context.Context) {
	userID, err := a.session.UserID(ctx)
	if err != nil {
		a.terminal.ShowError(err.Error())
		return
	}

	orders, err := a.backend.ListOrders(ctx, userID)
	if err != nil {
		a.terminal.ShowError(err.Error())
		return
	}

	if len(orders) == 0 {
		a.terminal.Notify("No tiene pedidos.")
		return
	}
	for _, o := range orders {
		a.terminal.Notify(fmt.Sprintf("Pedido %d - %s - $%d", o.ID, o.Status, o.Total))
	}
}

func (a *App) cmdFollow(ctx context.Context, args []string) {
	var orderID int64
	if len(args) > 0 {
		id, ok := a.parseID(args, "seguir [id]")
		if !ok {
			return
		}
		orderID = id
	} else {
		id, err := a.checkout.LastOrderID(ctx)
		if err != nil {
			a.terminal.ShowError("no hay un pedido reciente que seguir")
			return
		}
		orderID = id
	}

	a.terminal.Notify(fmt.Sprintf("Siguiendo el pedido %d ('parar' para detener)...", orderID))
	a.poller.Start(ctx, orderID)
}

func (a *App) cmdRegister(ctx context.Context) {
	input := api.RegisterInput{
		Name:      a.prompt("Nombre"),
		Email:     a.prompt("Email"),
		Password:  a.prompt("Contraseña"),
		Direccion: a.prompt("Dirección (opcional)"),
		Telefono:  a.prompt("Teléfono (opcional)"),
	}

	if err := validator.Validate(input); err != nil {
		a.terminal.ShowError(err.Error())
		return
	}

	user, err := a.backend.Register(ctx, input)
	if err != nil {
		a.terminal.ShowError(err.Error())
		return
	}

	a.terminal.Notify(fmt.Sprintf("Cuenta creada para %s. Ahora inicie sesión.", user.Name))
}

func (a *App) cmdLogin(ctx context.Context, args []string) {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		email = a.prompt("Email")
	}
	password := a.prompt("Contraseña")

	user, err := a.session.Login(ctx, email, password)
	if err != nil {
		a.terminal.ShowError(err.Error())
		return
	}

	a.terminal.Notify(fmt.Sprintf("Hola, %s.", user.Name))
	a.cart.Load(ctx)
}

func (a *App) cmdLogout(ctx context.Context) {
	if err := a.session.Logout(ctx); err != nil {
		a.terminal.ShowError(err.Error())
		return
	}
	a.terminal.Notify("Sesión cerrada.")
}

func (a *App) cmdProfile(ctx context.Context) {
	profile, err := a.session.Profile(ctx)
	if err != nil {
		a.terminal.ShowError(err.Error())
		return
	}

	a.terminal.Notify(fmt.Sprintf("Nombre: %s\nEmail: %s\nDirección: %s\nTeléfono: %s",
		profile.Name, profile.Email, profile.Direccion, profile.Telefono))

	if !a.terminal.Confirm("¿Editar perfil?") {
		return
	}

	input := api.ProfileInput{
		Name:      a.promptDefault("Nombre", profile.Name),
		Email:     a.promptDefault("Email", profile.Email),
		Direccion: a.promptDefault("Dirección", profile.Direccion),
		Telefono:  a.promptDefault("Teléfono", profile.Telefono),
	}

	if err := validator.Validate(input); err != nil {
		a.terminal.ShowError(err.Error())
		return
	}

	user, err := a.backend.UpdateUser(ctx, profile.ID, input)
	if err != nil {
		a.terminal.ShowError(err.Error())
		return
	}

	if err := a.session.UpdateProfile(ctx, user); err != nil {
		a.terminal.ShowError(err.Error())
		return
	}
	a.terminal.Notify("Perfil actualizado.")
}

func (a *App) cmdReport(ctx context.Context, args []string) {
	filter := report.Filter{}
	if len(args) > 0 {
		filter.ProductType = args[0]
	}
	if len(args) > 1 {
		filter.From = args[1]
	}
	if len(args) > 2 {
		filter.To = args[2]
	}

	rows, err := a.console.SalesReport(ctx, filter)
	if err != nil {
		a.terminal.ShowError(err.Error())
		return
	}

	if len(rows) == 0 {
		a.terminal.Notify("Sin ventas para los filtros dados.")
		return
	}

	var total int64
	for _, row := range rows {
		a.terminal.Notify(fmt.Sprintf("%s x%d $%d (%s)", row.Product, row.Quantity, row.Subtotal, row.Date))
		total += row.Subtotal
	}
	a.terminal.Notify(fmt.Sprintf("Total vendido: $%d", total))
}

// cmdCatalog handles the admin product console: catalogo [crear|editar <id>|
// eliminar <id>|disponible <id>]. Without arguments it lists everything,
// including unavailable products.
func (a *App) cmdCatalog(ctx context.Context, args []string) {
	if len(args) == 0 {
		products, err := a.console.ListProducts(ctx)
		if err != nil {
			a.terminal.ShowError(err.Error())
			return
		}
		for _, p := range products {
			state := "disponible"
			if !p.Available {
				state = "no disponible"
			}
			a.terminal.Notify(fmt.Sprintf("[%d] %s - $%d - stock %d - %s", p.ID, p.Name, p.Price, p.Stock, state))
		}
		return
	}

	switch args[0] {
	case "crear":
		input, ok := a.promptProduct(api.ProductInput{Available: true})
		if !ok {
			return
		}
		if _, err := a.console.CreateProduct(ctx, input); err != nil {
			a.terminal.ShowError(err.Error())
		}
	case "editar":
		product, ok := a.findProduct(ctx, args[1:])
		if !ok {
			return
		}
		input, ok := a.promptProduct(api.ProductInput{
			Name:        product.Name,
			Description: product.Description,
			Price:       product.Price,
			Available:   product.Available,
			Stock:       product.Stock,
			Tags:        product.Tags,
			ImageRef:    product.ImageRef,
		})
		if !ok {
			return
		}
		if _, err := a.console.UpdateProduct(ctx, product.ID, input); err != nil {
			a.terminal.ShowError(err.Error())
		}
	case "eliminar":
		product, ok := a.findProduct(ctx, args[1:])
		if !ok {
			return
		}
		if err := a.console.DeleteProduct(ctx, *product); err != nil {
			a.terminal.ShowError(err.Error())
		}
	case "disponible":
		product, ok := a.findProduct(ctx, args[1:])
		if !ok {
			return
		}
		if err := a.console.ToggleAvailability(ctx, *product); err != nil {
			a.terminal.ShowError(err.Error())
		}
	default:
		a.terminal.ShowError("uso: catalogo [crear|editar <id>|eliminar <id>|disponible <id>]")
	}
}

// --- prompt helpers ---

func (a *App) prompt(label string) string {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.terminal.ReadLine()
	if err != nil {
		return ""
	}
	return line
}

func (a *App) promptDefault(label, current string) string {
	value := a.prompt(fmt.Sprintf("%s [%s]", label, current))
	if value == "" {
		return current
	}
	return value
}

func (a *App) promptProduct(defaults api.ProductInput) (api.ProductInput, bool) {
	input := defaults
	input.Name = a.promptDefault("Nombre", defaults.Name)
	input.Description = a.promptDefault("Descripción", defaults.Description)

	priceRaw := a.promptDefault("Precio", strconv.FormatInt(defaults.Price, 10))
	price, err := strconv.ParseInt(priceRaw, 10, 64)
	if err != nil || price < 0 {
		a.terminal.ShowError("el precio debe ser un número no negativo")
		return input, false
	}
	input.Price = price

	stockRaw := a.promptDefault("Stock", strconv.Itoa(defaults.Stock))
	stock, err := strconv.Atoi(stockRaw)
	if err != nil || stock < 0 {
		a.terminal.ShowError("el stock debe ser un número no negativo")
		return input, false
	}
	input.Stock = stock

	return input, true
}

func (a *App) findProduct(ctx context.Context, args []string) (*domain.Product, bool) {
	id, ok := a.parseID(args, "se requiere el id del producto")
	if !ok {
		return nil, false
	}

	product, err := a.backend.GetProduct(ctx, id)
	if err != nil {
		a.terminal.ShowError(err.Error())
		return nil, false
	}
	return product, true
}

func (a *App) parseID(args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		a.terminal.ShowError("uso: " + usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		a.terminal.ShowError("uso: " + usage)
		return 0, false
	}
	return id, true
}
