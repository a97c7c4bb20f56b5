package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListResponse envelopa listagens; Total é o tamanho de Data.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created responde 201 com o recurso recém-criado.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// List nunca serializa null: sem itens a resposta é {"data":[],"total":0}.
func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}
