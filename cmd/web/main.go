// @title           InnerAI API
// @version         1.0
// @description     Заявки по клиентам, поставщикам и продуктам, папки встреч с файлами.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "innerai_backend/internal/app"

func main() {
	app.Run()
}
