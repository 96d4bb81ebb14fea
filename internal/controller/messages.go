package controller

// User-facing messages. The console speaks Portuguese, like the ticket API's staff.
const (
	MsgRequiredFields = "Preencha todos os campos obrigatórios."

	MsgLoadTicketsFailed   = "Erro ao carregar tickets."
	MsgTicketCreated       = "Ticket criado com sucesso!"
	MsgTicketUpdated       = "Ticket atualizado com sucesso!"
	MsgTicketUpdateFailed  = "Erro ao atualizar ticket."
	MsgConfirmDeleteTicket = "Tem certeza que deseja deletar este ticket?"
	MsgTicketDeleted       = "Ticket deletado com sucesso!"
	MsgTicketDeleteFailed  = "Erro ao deletar ticket."
	MsgCommentGenerated    = "Comentário gerado com sucesso!"
	MsgCommentFailed       = "Erro ao gerar comentário."
	MsgAdminRequired       = "Ação disponível apenas para administradores."

	// MsgEmergencySupport answers the severity level 1 rejection. Ticket
	// creation shows it for every failure.
	MsgEmergencySupport = "Nos casos que são muito urgentes, como severidade nível 1, entre em contato com a equipe de suporte de emergência."

	MsgLoadSeveritiesFailed    = "Erro ao carregar Severities."
	MsgLoadCategoriesFailed    = "Erro ao carregar categorias."
	MsgLoadSubcategoriesFailed = "Erro ao carregar subcategorias."

	MsgSeverityCreated       = "Severidade criada com sucesso!"
	MsgSeverityCreateFailed  = "Erro ao criar severidade."
	MsgSeverityUpdated       = "Severidade atualizada com sucesso!"
	MsgSeverityUpdateFailed  = "Erro ao atualizar severidade."
	MsgConfirmDeleteSeverity = "Tem certeza que deseja deletar esta Severity?"
	MsgSeverityDeleted       = "Severidade deletada com sucesso!"
	MsgSeverityDeleteFailed  = "Erro ao deletar severidade."

	MsgLoadCatalogFailed     = "Erro ao carregar dados."
	MsgCategoryNameRequired  = "O nome da categoria é obrigatório."
	MsgCategoryCreated       = "Categoria criada com sucesso!"
	MsgCategoryCreateFailed  = "Erro ao criar categoria."
	MsgCategoryUpdated       = "Categoria atualizada com sucesso!"
	MsgCategoryUpdateFailed  = "Erro ao atualizar categoria."
	MsgConfirmDeleteCategory = "Tem certeza que deseja deletar esta Categoria?"
	MsgCategoryDeleted       = "Categoria deletada com sucesso!"
	MsgCategoryDeleteFailed  = "Erro ao deletar categoria."

	MsgSubcategoryNameRequired  = "O nome da subcategoria é obrigatório."
	MsgSubcategoryCreated       = "Subcategoria criada com sucesso!"
	MsgSubcategoryCreateFailed  = "Erro ao criar subcategoria."
	MsgSubcategoryUpdated       = "Subcategoria atualizada com sucesso!"
	MsgSubcategoryUpdateFailed  = "Erro ao atualizar subcategoria."
	MsgConfirmDeleteSubcategory = "Tem certeza que deseja deletar esta Subcategoria?"
	MsgSubcategoryDeleted       = "Subcategoria deletada com sucesso!"
	MsgSubcategoryDeleteFailed  = "Erro ao deletar subcategoria."

	MsgLoadUsersFailed    = "Erro ao carregar usuários."
	MsgUserFieldsRequired = "Por favor, preencha todos os campos obrigatórios."
	MsgUserCreated        = "Usuário criado com sucesso!"
	MsgUserCreateFailed   = "Erro ao criar usuário."
	MsgUserUpdated        = "Usuário atualizado com sucesso!"
	MsgUserUpdateFailed   = "Erro ao atualizar usuário."
	MsgConfirmDeleteUser  = "Tem certeza que deseja deletar este Usuário?"
	MsgUserDeleted        = "Usuário deletado com sucesso!"
	MsgUserDeleteFailed   = "Erro ao deletar usuário."
	MsgRandomUserCreated  = "Usuário aleatório criado com sucesso!"
	MsgRandomUserFailed   = "Erro ao criar usuário aleatório."
)

// SeverityLevelOneDetail is the API's detail for a level 1 creation attempt.
const SeverityLevelOneDetail = "Cannot create a ticket with severity level 1."
