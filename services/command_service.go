package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sokerihelmi/bakery-api/models"
)

// ErrNotCommand is returned by ParseCommand for text that does not start
// with the command sentinel.
var ErrNotCommand = errors.New("text is not a bot command")

// CommandKind enumerates the recognized operator commands
type CommandKind int

const (
	CommandUnknown CommandKind = iota
	CommandHelp
	CommandAddCategory
	CommandListCategories
	CommandDeleteCategory
	CommandAddTag
	CommandListTags
	CommandDeleteTag
	CommandAddProduct
	CommandListProducts
	CommandDeleteProduct
	CommandSetCategory
	CommandTagProduct
)

// Command is the parsed form of an operator message: a kind plus trimmed
// positional arguments. Parsing is separate from execution so the
// dispatcher can match exhaustively on the kind.
type Command struct {
	Kind CommandKind
	Args []string
}

var commandKinds = map[string]CommandKind{
	"help":           CommandHelp,
	"start":          CommandHelp,
	"addcategory":    CommandAddCategory,
	"listcategories": CommandListCategories,
	"deletecategory": CommandDeleteCategory,
	"addtag":         CommandAddTag,
	"listtags":       CommandListTags,
	"deletetag":      CommandDeleteTag,
	"addproduct":     CommandAddProduct,
	"listproducts":   CommandListProducts,
	"deleteproduct":  CommandDeleteProduct,
	"setcategory":    CommandSetCategory,
	"tagproduct":     CommandTagProduct,
}

// ParseCommand splits raw message text into a Command. The command name is
// the first whitespace-delimited token (case-insensitive, "/" sentinel,
// optional @botname suffix); the rest is split on "|" into positional
// fields, each trimmed.
func ParseCommand(text string) (Command, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return Command{}, ErrNotCommand
	}

	name := text[1:]
	tail := ""
	if idx := strings.IndexFunc(name, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }); idx >= 0 {
		tail = strings.TrimSpace(name[idx+1:])
		name = name[:idx]
	}

	// Telegram appends @botname in group chats
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}

	kind, ok := commandKinds[strings.ToLower(name)]
	if !ok {
		return Command{Kind: CommandUnknown}, nil
	}

	var args []string
	if tail != "" {
		for _, field := range strings.Split(tail, "|") {
			args = append(args, strings.TrimSpace(field))
		}
	}

	return Command{Kind: kind, Args: args}, nil
}

const helpText = `Available commands:
/help - show this message
/addcategory name | description - create a category
/listcategories - list all categories
/deletecategory id - delete a category
/addtag name - create a tag
/listtags - list all tags
/deletetag id - delete a tag
/addproduct name | price | description | composition - create a product
/listproducts - list all products
/deleteproduct id - delete a product
/setcategory product_id | category_id - assign a product to a category
/tagproduct product_id | tag_id - attach a tag to a product

Fields are separated with "|".`

// CommandDispatcher executes parsed operator commands against the catalog.
// Each message is handled independently; there is no conversation state.
type CommandDispatcher struct {
	db *gorm.DB
}

// NewCommandDispatcher creates a dispatcher bound to the given database
func NewCommandDispatcher(db *gorm.DB) *CommandDispatcher {
	return &CommandDispatcher{db: db}
}

// Handle parses and executes one operator message and returns the reply to
// send back. It never returns an error: every failure becomes a user-facing
// string.
func (d *CommandDispatcher) Handle(text string) string {
	cmd, err := ParseCommand(text)
	if err != nil {
		return helpText
	}

	switch cmd.Kind {
	case CommandHelp:
		return helpText
	case CommandAddCategory:
		return d.addCategory(cmd.Args)
	case CommandListCategories:
		return d.listCategories()
	case CommandDeleteCategory:
		return d.deleteCategory(cmd.Args)
	case CommandAddTag:
		return d.addTag(cmd.Args)
	case CommandListTags:
		return d.listTags()
	case CommandDeleteTag:
		return d.deleteTag(cmd.Args)
	case CommandAddProduct:
		return d.addProduct(cmd.Args)
	case CommandListProducts:
		return d.listProducts()
	case CommandDeleteProduct:
		return d.deleteProduct(cmd.Args)
	case CommandSetCategory:
		return d.setCategory(cmd.Args)
	case CommandTagProduct:
		return d.tagProduct(cmd.Args)
	default:
		return "Unknown command.\n\n" + helpText
	}
}

const genericFailure = "⚠️ Something went wrong, please try again."

func (d *CommandDispatcher) addCategory(args []string) string {
	if len(args) < 1 || args[0] == "" {
		return "Expected format: /addcategory name | description"
	}

	category := models.Category{Name: args[0]}
	if len(args) > 1 {
		category.Description = args[1]
	}

	if err := d.db.Create(&category).Error; err != nil {
		zap.S().Errorw("Failed to create category", "name", args[0], "error", err)
		return fmt.Sprintf("Could not create category %q, it may already exist.", args[0])
	}

	return fmt.Sprintf("✅ Category %q created with id %d", category.Name, category.ID)
}

func (d *CommandDispatcher) listCategories() string {
	var categories []models.Category
	if err := d.db.Order("id").Find(&categories).Error; err != nil {
		zap.S().Errorw("Failed to list categories", "error", err)
		return genericFailure
	}

	if len(categories) == 0 {
		return "No categories yet."
	}

	var b strings.Builder
	b.WriteString("Categories:\n")
	for _, c := range categories {
		if c.Description != "" {
			b.WriteString(fmt.Sprintf("%d. %s — %s\n", c.ID, c.Name, c.Description))
		} else {
			b.WriteString(fmt.Sprintf("%d. %s\n", c.ID, c.Name))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *CommandDispatcher) deleteCategory(args []string) string {
	id, ok := parseID(args)
	if !ok {
		return "Expected format: /deletecategory id"
	}

	result := d.db.Delete(&models.Category{}, id)
	if result.Error != nil {
		zap.S().Errorw("Failed to delete category", "id", id, "error", result.Error)
		return genericFailure
	}
	if result.RowsAffected == 0 {
		return fmt.Sprintf("Category %d not found.", id)
	}

	return fmt.Sprintf("🗑 Category %d deleted", id)
}

func (d *CommandDispatcher) addTag(args []string) string {
	if len(args) < 1 || args[0] == "" {
		return "Expected format: /addtag name"
	}

	tag := models.Tag{Name: args[0]}
	if err := d.db.Create(&tag).Error; err != nil {
		zap.S().Errorw("Failed to create tag", "name", args[0], "error", err)
		return fmt.Sprintf("Could not create tag %q, it may already exist.", args[0])
	}

	return fmt.Sprintf("✅ Tag %q created with id %d", tag.Name, tag.ID)
}

func (d *CommandDispatcher) listTags() string {
	var tags []models.Tag
	if err := d.db.Order("id").Find(&tags).Error; err != nil {
		zap.S().Errorw("Failed to list tags", "error", err)
		return genericFailure
	}

	if len(tags) == 0 {
		return "No tags yet."
	}

	var b strings.Builder
	b.WriteString("Tags:\n")
	for _, t := range tags {
		b.WriteString(fmt.Sprintf("%d. %s\n", t.ID, t.Name))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *CommandDispatcher) deleteTag(args []string) string {
	id, ok := parseID(args)
	if !ok {
		return "Expected format: /deletetag id"
	}

	result := d.db.Delete(&models.Tag{}, id)
	if result.Error != nil {
		zap.S().Errorw("Failed to delete tag", "id", id, "error", result.Error)
		return genericFailure
	}
	if result.RowsAffected == 0 {
		return fmt.Sprintf("Tag %d not found.", id)
	}

	return fmt.Sprintf("🗑 Tag %d deleted", id)
}

func (d *CommandDispatcher) addProduct(args []string) string {
	const usage = "Expected format: /addproduct name | price | description | composition"

	if len(args) < 2 || args[0] == "" || args[1] == "" {
		return usage
	}

	price, err := strconv.ParseFloat(args[1], 64)
	if err != nil || price < 0 {
		return "Price must be a non-negative number.\n" + usage
	}

	product := models.Product{
		Name:  args[0],
		Price: price,
	}
	if len(args) > 2 {
		product.Description = args[2]
	}
	if len(args) > 3 {
		product.Composition = args[3]
	}

	if err := d.db.Create(&product).Error; err != nil {
		zap.S().Errorw("Failed to create product", "name", args[0], "error", err)
		return genericFailure
	}

	return fmt.Sprintf("✅ Product %q created with id %d (€%.2f)", product.Name, product.ID, product.Price)
}

func (d *CommandDispatcher) listProducts() string {
	var products []models.Product
	if err := d.db.Order("id").Find(&products).Error; err != nil {
		zap.S().Errorw("Failed to list products", "error", err)
		return genericFailure
	}

	if len(products) == 0 {
		return "No products yet."
	}

	var b strings.Builder
	b.WriteString("Products:\n")
	for _, p := range products {
		b.WriteString(fmt.Sprintf("%d. %s — €%.2f\n", p.ID, p.Name, p.Price))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *CommandDispatcher) deleteProduct(args []string) string {
	id, ok := parseID(args)
	if !ok {
		return "Expected format: /deleteproduct id"
	}

	result := d.db.Delete(&models.Product{}, id)
	if result.Error != nil {
		zap.S().Errorw("Failed to delete product", "id", id, "error", result.Error)
		return genericFailure
	}
	if result.RowsAffected == 0 {
		return fmt.Sprintf("Product %d not found.", id)
	}

	return fmt.Sprintf("🗑 Product %d deleted", id)
}

func (d *CommandDispatcher) setCategory(args []string) string {
	const usage = "Expected format: /setcategory product_id | category_id"

	if len(args) != 2 {
		return usage
	}
	productID, err1 := strconv.ParseUint(args[0], 10, 32)
	categoryID, err2 := strconv.ParseUint(args[1], 10, 32)
	if err1 != nil || err2 != nil {
		return "Both ids must be numbers.\n" + usage
	}

	var product models.Product
	if err := d.db.First(&product, productID).Error; err != nil {
		return fmt.Sprintf("Product %d not found.", productID)
	}
	var category models.Category
	if err := d.db.First(&category, categoryID).Error; err != nil {
		return fmt.Sprintf("Category %d not found.", categoryID)
	}

	cid := uint(categoryID)
	if err := d.db.Model(&product).Update("category_id", cid).Error; err != nil {
		zap.S().Errorw("Failed to set product category", "product_id", productID, "category_id", categoryID, "error", err)
		return genericFailure
	}

	return fmt.Sprintf("✅ Product %q is now in category %q", product.Name, category.Name)
}

func (d *CommandDispatcher) tagProduct(args []string) string {
	const usage = "Expected format: /tagproduct product_id | tag_id"

	if len(args) != 2 {
		return usage
	}
	productID, err1 := strconv.ParseUint(args[0], 10, 32)
	tagID, err2 := strconv.ParseUint(args[1], 10, 32)
	if err1 != nil || err2 != nil {
		return "Both ids must be numbers.\n" + usage
	}

	var product models.Product
	if err := d.db.First(&product, productID).Error; err != nil {
		return fmt.Sprintf("Product %d not found.", productID)
	}
	var tag models.Tag
	if err := d.db.First(&tag, tagID).Error; err != nil {
		return fmt.Sprintf("Tag %d not found.", tagID)
	}

	if err := d.db.Model(&product).Association("Tags").Append(&tag); err != nil {
		zap.S().Errorw("Failed to tag product", "product_id", productID, "tag_id", tagID, "error", err)
		return genericFailure
	}

	return fmt.Sprintf("✅ Product %q tagged with %q", product.Name, tag.Name)
}

// parseID extracts a single positive integer argument
func parseID(args []string) (uint, bool) {
	if len(args) != 1 || args[0] == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
