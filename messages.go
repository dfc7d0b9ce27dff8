package philofeed

import "fmt"

// User-facing notifications.
const (
	msgMissingFields   = "Por favor, completa todos los campos obligatorios"
	msgDeleteCancelled = "Eliminación cancelada."
	msgDeleted         = "Contenido eliminado."
	msgStorageWrite    = "No se pudo guardar en el almacenamiento; el cambio se conserva hasta el próximo guardado."
	msgFileRead        = "No se pudo leer el archivo adjunto."
	msgTooManyRequests = "Demasiados envíos. Inténtalo de nuevo más tarde."
	msgSearchEmpty     = "Por favor, ingresa un término de búsqueda"
	msgEmailMissing    = "Por favor, ingresa tu email"
	msgEmailInvalid    = "Por favor, ingresa un email válido"
)

func msgPublished(title string) string {
	return fmt.Sprintf("¡Contenido \"%s\" publicado con éxito!", title)
}

func msgSearching(term string) string {
	return "Buscando: " + term
}

func msgSubscribed(email string) string {
	return "Gracias por suscribirte con el email: " + email
}

func msgAttachment(name, size string) string {
	return "Archivo adjunto: " + name + " (" + size + ")"
}
