package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lanhub/config"
	"lanhub/models"
	"lanhub/store"
	"lanhub/utils"
)

// GetShoppingListHandler returns the full shopping list.
// @Summary      Get the Shopping List
// @Description  Returns every item on the shared shopping list as a JSON array of strings, in insertion order. Duplicates are allowed.
// @Tags         Shopping
// @Produce      json
// @Success      200  {array}  string "The current shopping list."
// @Router       /shopping_list [get]
func GetShoppingListHandler(c *gin.Context, st *store.Store, cfg *config.Config) {
	c.JSON(http.StatusOK, st.Items())
}

// AddItemHandler appends one item to the shopping list.
// @Summary      Add a Shopping Item
// @Description  Appends the given item to the end of the shopping list. The name must be non-empty after trimming whitespace.
// @Tags         Shopping
// @Accept       json
// @Produce      plain
// @Param        item body models.AddItemRequest true "The item to add."
// @Success      200  {string}  string "Item added"
// @Failure      400  {object}  utils.APIError "Malformed JSON or empty name."
// @Router       /add_item [post]
func AddItemHandler(c *gin.Context, st *store.Store, cfg *config.Config) {
	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.GinBadRequest(c, "Invalid JSON body.")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		utils.GinBadRequest(c, "Item name must not be empty.")
		return
	}

	if err := st.AddItem(name); err != nil {
		utils.GinInternalServerError(c, "Failed to save shopping list: "+err.Error())
		return
	}

	c.String(http.StatusOK, "Item added")
}

// RemoveItemHandler removes every shopping list entry exactly equal to the
// given name. Removing a missing item is a no-op that still returns 200.
// @Summary      Remove a Shopping Item
// @Description  Removes all entries exactly matching the given name. The name is sanitized the same way as filenames before matching.
// @Tags         Shopping
// @Produce      plain
// @Param        name path string true "The item name to remove."
// @Success      200  {string}  string "Item removed"
// @Router       /remove_item/{name} [delete]
func RemoveItemHandler(c *gin.Context, st *store.Store, cfg *config.Config) {
	name := utils.SanitizeFilename(c.Param("name"))

	if _, err := st.RemoveItem(name); err != nil {
		utils.GinInternalServerError(c, "Failed to save shopping list: "+err.Error())
		return
	}

	c.String(http.StatusOK, "Item removed")
}
